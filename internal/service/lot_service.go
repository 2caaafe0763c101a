package service

import (
	"context"
	"errors"
	"fmt"

	"parking-service/internal/models"
	"parking-service/internal/redisclient"
	"parking-service/internal/store"
	"parking-service/internal/util"

	"go.uber.org/zap"
)

// LotService manages parking lot configuration
type LotService struct {
	store  *store.Store
	redis  *redisclient.Client
	logger *zap.Logger
}

// NewLotService creates a new lot service
func NewLotService(store *store.Store, redis *redisclient.Client) *LotService {
	return &LotService{
		store:  store,
		redis:  redis,
		logger: util.GetLogger(),
	}
}

// LotRequest represents lot configuration
type LotRequest struct {
	Name      string  `json:"name"`
	Location  string  `json:"location"`
	Address   string  `json:"address"`
	Capacity  int     `json:"capacity"`
	Tariff    float64 `json:"tariff"`
	DayTariff float64 `json:"daytariff"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
}

func (lr *LotRequest) validate() error {
	if lr.Name == "" {
		return &ValidationError{Field: "name", Reason: "required"}
	}
	if lr.Capacity < 0 {
		return &ValidationError{Field: "capacity", Reason: "must not be negative"}
	}
	if lr.Tariff < 0 {
		return &ValidationError{Field: "tariff", Reason: "must not be negative"}
	}
	if lr.DayTariff < 0 {
		return &ValidationError{Field: "daytariff", Reason: "must not be negative"}
	}
	return nil
}

// CreateLot creates a parking lot. Privileged only.
func (ls *LotService) CreateLot(ctx context.Context, identity *models.Identity, req *LotRequest) (*models.ParkingLot, error) {
	if !identity.IsAdmin() {
		return nil, &AuthorizationError{Reason: "admin role required"}
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	lot := &models.ParkingLot{
		Name:      req.Name,
		Location:  req.Location,
		Address:   req.Address,
		Capacity:  req.Capacity,
		Tariff:    req.Tariff,
		DayTariff: req.DayTariff,
		Lat:       req.Lat,
		Lng:       req.Lng,
	}

	if err := ls.store.CreateLot(ctx, lot); err != nil {
		return nil, fmt.Errorf("failed to create lot: %w", err)
	}

	ls.logger.Info("Parking lot created",
		zap.Int64("lot_id", lot.ID),
		zap.String("name", lot.Name))
	return lot, nil
}

// GetLot returns one lot with its live occupancy counter
func (ls *LotService) GetLot(ctx context.Context, lotID int64) (*models.ParkingLot, int64, error) {
	lot, err := ls.store.GetLotByID(ctx, lotID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, 0, &NotFoundError{Resource: "parking lot"}
		}
		return nil, 0, err
	}

	occupancy, err := ls.redis.GetOccupancy(ctx, lotID)
	if err != nil {
		// The lot config is still useful without the live counter
		ls.logger.Warn("Failed to read occupancy", zap.Int64("lot_id", lotID), zap.Error(err))
		occupancy = 0
	}

	return lot, occupancy, nil
}

// ListLots returns all parking lots
func (ls *LotService) ListLots(ctx context.Context) ([]models.ParkingLot, error) {
	return ls.store.GetLots(ctx)
}

// UpdateLot replaces a lot's configuration. Privileged only.
func (ls *LotService) UpdateLot(ctx context.Context, identity *models.Identity, lotID int64, req *LotRequest) (*models.ParkingLot, error) {
	if !identity.IsAdmin() {
		return nil, &AuthorizationError{Reason: "admin role required"}
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	lot, err := ls.store.GetLotByID(ctx, lotID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &NotFoundError{Resource: "parking lot"}
		}
		return nil, err
	}

	lot.Name = req.Name
	lot.Location = req.Location
	lot.Address = req.Address
	lot.Capacity = req.Capacity
	lot.Tariff = req.Tariff
	lot.DayTariff = req.DayTariff
	lot.Lat = req.Lat
	lot.Lng = req.Lng

	if err := ls.store.UpdateLot(ctx, lot); err != nil {
		return nil, fmt.Errorf("failed to update lot: %w", err)
	}

	ls.logger.Info("Parking lot updated", zap.Int64("lot_id", lot.ID))
	return lot, nil
}

// DeleteLot removes a lot. Privileged only; refused while sessions or
// payments still reference it.
func (ls *LotService) DeleteLot(ctx context.Context, identity *models.Identity, lotID int64) error {
	if !identity.IsAdmin() {
		return &AuthorizationError{Reason: "admin role required"}
	}

	err := ls.store.DeleteLot(ctx, lotID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return &NotFoundError{Resource: "parking lot"}
	case errors.Is(err, store.ErrReferenced):
		return &ConflictError{Reason: "sessions or payments still reference this lot"}
	}
	return err
}
