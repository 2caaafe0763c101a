package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"parking-service/internal/models"
	"parking-service/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventPublisher handles publishing domain events. Session events are keyed
// by lot so per-lot ordering is preserved for the occupancy counters;
// payment events are keyed by transaction.
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishSessionStarted publishes a SessionStarted event
func (ep *EventPublisher) PublishSessionStarted(ctx context.Context, event *models.SessionStartedEvent) error {
	key := fmt.Sprintf("lot-%d", event.ParkingLotID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishSessionStopped publishes a SessionStopped event
func (ep *EventPublisher) PublishSessionStopped(ctx context.Context, event *models.SessionStoppedEvent) error {
	key := fmt.Sprintf("lot-%d", event.ParkingLotID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishPaymentCreated publishes a PaymentCreated event
func (ep *EventPublisher) PublishPaymentCreated(ctx context.Context, event *models.PaymentCreatedEvent) error {
	key := fmt.Sprintf("payment-%s", event.TransactionID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishPaymentCompleted publishes a PaymentCompleted event
func (ep *EventPublisher) PublishPaymentCompleted(ctx context.Context, event *models.PaymentCompletedEvent) error {
	key := fmt.Sprintf("payment-%s", event.TransactionID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishPaymentRefunded publishes a PaymentRefunded event
func (ep *EventPublisher) PublishPaymentRefunded(ctx context.Context, event *models.PaymentRefundedEvent) error {
	key := fmt.Sprintf("payment-%s", event.TransactionID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// EventHandler routes incoming session events to registered callbacks
type EventHandler struct {
	onSessionStarted func(context.Context, *models.SessionStartedEvent) error
	onSessionStopped func(context.Context, *models.SessionStoppedEvent) error
	logger           *zap.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{logger: util.GetLogger()}
}

// OnSessionStarted registers a handler for SessionStarted events
func (eh *EventHandler) OnSessionStarted(handler func(context.Context, *models.SessionStartedEvent) error) {
	eh.onSessionStarted = handler
}

// OnSessionStopped registers a handler for SessionStopped events
func (eh *EventHandler) OnSessionStopped(handler func(context.Context, *models.SessionStoppedEvent) error) {
	eh.onSessionStopped = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	eh.logger.Debug("Handling event",
		zap.String("type", baseEvent.EventType),
		zap.String("event_id", baseEvent.EventID))

	switch baseEvent.EventType {
	case models.EventTypeSessionStarted:
		if eh.onSessionStarted != nil {
			var event models.SessionStartedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal SessionStarted event: %w", err)
			}
			return eh.onSessionStarted(ctx, &event)
		}

	case models.EventTypeSessionStopped:
		if eh.onSessionStopped != nil {
			var event models.SessionStoppedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal SessionStopped event: %w", err)
			}
			return eh.onSessionStopped(ctx, &event)
		}

	default:
		eh.logger.Debug("Unhandled event type", zap.String("type", baseEvent.EventType))
	}

	return nil
}
