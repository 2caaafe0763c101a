package broker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"parking-service/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionStartedMessage(t *testing.T, sessionID int64) kafka.Message {
	t.Helper()

	event := models.SessionStartedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   "evt-1",
			EventType: models.EventTypeSessionStarted,
			Timestamp: time.Now(),
		},
		SessionID:    sessionID,
		ParkingLotID: 7,
		LicensePlate: "AB12CD",
	}

	payload, err := json.Marshal(event)
	require.NoError(t, err)
	return kafka.Message{Value: payload}
}

func TestEventHandlerRoutesSessionStarted(t *testing.T) {
	handler := NewEventHandler()

	var got *models.SessionStartedEvent
	handler.OnSessionStarted(func(ctx context.Context, event *models.SessionStartedEvent) error {
		got = event
		return nil
	})

	err := handler.HandleMessage(context.Background(), sessionStartedMessage(t, 42))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(42), got.SessionID)
	assert.Equal(t, int64(7), got.ParkingLotID)
}

func TestEventHandlerIgnoresUnknownTypes(t *testing.T) {
	handler := NewEventHandler()

	called := false
	handler.OnSessionStarted(func(ctx context.Context, event *models.SessionStartedEvent) error {
		called = true
		return nil
	})

	payload, err := json.Marshal(models.BaseEvent{
		EventID:   "evt-2",
		EventType: "SOMETHING_ELSE",
		Timestamp: time.Now(),
	})
	require.NoError(t, err)

	err = handler.HandleMessage(context.Background(), kafka.Message{Value: payload})
	require.NoError(t, err)
	assert.False(t, called)
}

func TestEventHandlerRejectsMalformedPayload(t *testing.T) {
	handler := NewEventHandler()

	err := handler.HandleMessage(context.Background(), kafka.Message{Value: []byte("{not json")})
	assert.Error(t, err)
}

func TestEventHandlerSkipsUnregisteredType(t *testing.T) {
	handler := NewEventHandler()

	// No callbacks registered at all; a valid event must not panic
	err := handler.HandleMessage(context.Background(), sessionStartedMessage(t, 1))
	assert.NoError(t, err)
}
