package worker

import (
	"context"

	"parking-service/internal/broker"
	"parking-service/internal/service"
	"parking-service/internal/util"

	"go.uber.org/zap"
)

// OccupancyWorker consumes session events and keeps the per-lot
// occupancy counters current
type OccupancyWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	tracker      *service.OccupancyTracker
	logger       *zap.Logger
}

// NewOccupancyWorker creates a new occupancy worker
func NewOccupancyWorker(
	consumer *broker.Consumer,
	tracker *service.OccupancyTracker,
) *OccupancyWorker {
	eventHandler := broker.NewEventHandler()

	eventHandler.OnSessionStarted(tracker.HandleSessionStarted)
	eventHandler.OnSessionStopped(tracker.HandleSessionStopped)

	return &OccupancyWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
		tracker:      tracker,
		logger:       util.GetLogger(),
	}
}

// Start starts the worker
func (w *OccupancyWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting occupancy worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *OccupancyWorker) Stop() error {
	w.logger.Info("Stopping occupancy worker")
	return w.consumer.Close()
}
