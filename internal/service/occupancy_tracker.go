package service

import (
	"context"
	"fmt"
	"strconv"

	"parking-service/internal/models"
	"parking-service/internal/redisclient"
	"parking-service/internal/store"
	"parking-service/internal/util"

	"go.uber.org/zap"
)

// OccupancyTracker keeps the per-lot live occupancy counters in Redis in
// step with the session event stream. Handlers are idempotent: every event
// is checked against processed_events before it is applied, so redelivered
// messages never double-count.
type OccupancyTracker struct {
	store  *store.Store
	redis  *redisclient.Client
	logger *zap.Logger
}

// NewOccupancyTracker creates a new occupancy tracker
func NewOccupancyTracker(store *store.Store, redis *redisclient.Client) *OccupancyTracker {
	return &OccupancyTracker{
		store:  store,
		redis:  redis,
		logger: util.GetLogger(),
	}
}

// HandleSessionStarted bumps the lot's occupancy counter
func (ot *OccupancyTracker) HandleSessionStarted(ctx context.Context, event *models.SessionStartedEvent) error {
	ctx, span := util.StartSpan(ctx, "OccupancyTracker.HandleSessionStarted")
	defer span.End()

	processed, err := ot.store.IsEventProcessed(ctx, event.EventID)
	if err != nil {
		return fmt.Errorf("failed to check event processed: %w", err)
	}
	if processed {
		ot.logger.Info("Event already processed", zap.String("event_id", event.EventID))
		return nil
	}

	count, err := ot.redis.AdjustOccupancy(ctx, event.ParkingLotID, 1)
	if err != nil {
		return fmt.Errorf("failed to bump occupancy: %w", err)
	}

	util.LotOccupancy.WithLabelValues(strconv.FormatInt(event.ParkingLotID, 10)).Set(float64(count))

	if err := ot.store.MarkEventProcessed(ctx, event.EventID, event.EventType); err != nil {
		ot.logger.Error("Failed to mark event processed", zap.Error(err))
	}

	ot.logger.Info("Occupancy increased",
		zap.Int64("lot_id", event.ParkingLotID),
		zap.Int64("occupancy", count))
	return nil
}

// HandleSessionStopped releases the lot's occupancy counter
func (ot *OccupancyTracker) HandleSessionStopped(ctx context.Context, event *models.SessionStoppedEvent) error {
	ctx, span := util.StartSpan(ctx, "OccupancyTracker.HandleSessionStopped")
	defer span.End()

	processed, err := ot.store.IsEventProcessed(ctx, event.EventID)
	if err != nil {
		return fmt.Errorf("failed to check event processed: %w", err)
	}
	if processed {
		ot.logger.Info("Event already processed", zap.String("event_id", event.EventID))
		return nil
	}

	count, err := ot.redis.AdjustOccupancy(ctx, event.ParkingLotID, -1)
	if err != nil {
		return fmt.Errorf("failed to release occupancy: %w", err)
	}

	util.LotOccupancy.WithLabelValues(strconv.FormatInt(event.ParkingLotID, 10)).Set(float64(count))

	if err := ot.store.MarkEventProcessed(ctx, event.EventID, event.EventType); err != nil {
		ot.logger.Error("Failed to mark event processed", zap.Error(err))
	}

	ot.logger.Info("Occupancy decreased",
		zap.Int64("lot_id", event.ParkingLotID),
		zap.Int64("occupancy", count))
	return nil
}
