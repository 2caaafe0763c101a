package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"parking-service/internal/models"
	"parking-service/internal/store"
	"parking-service/internal/util"

	"go.uber.org/zap"
)

// ReservationService books parking spots ahead of time and keeps the lots'
// reserved counters in step
type ReservationService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewReservationService creates a new reservation service
func NewReservationService(store *store.Store) *ReservationService {
	return &ReservationService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// ReservationRequest represents a booking. User is only honored for
// privileged callers; everyone else books for themselves.
type ReservationRequest struct {
	ParkingLotID int64     `json:"parking_lot_id"`
	LicensePlate string    `json:"license_plate"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	User         string    `json:"user,omitempty"`
}

func (rr *ReservationRequest) validate() error {
	if rr.ParkingLotID == 0 {
		return &ValidationError{Field: "parking_lot_id", Reason: "required"}
	}
	if rr.LicensePlate == "" {
		return &ValidationError{Field: "license_plate", Reason: "required"}
	}
	if !ValidLicensePlate(rr.LicensePlate) {
		return &ValidationError{Field: "license_plate", Reason: "must be 2-15 alphanumeric characters"}
	}
	if rr.StartTime.IsZero() {
		return &ValidationError{Field: "start_time", Reason: "required"}
	}
	if rr.EndTime.IsZero() {
		return &ValidationError{Field: "end_time", Reason: "required"}
	}
	if !rr.EndTime.After(rr.StartTime) {
		return &ValidationError{Field: "end_time", Reason: "must be after start_time"}
	}
	return nil
}

// resolveOwner decides whose reservation this is. Non-privileged callers
// always book for themselves; privileged callers must name the user.
func (rs *ReservationService) resolveOwner(ctx context.Context, identity *models.Identity, username string) (int64, error) {
	if !identity.IsAdmin() {
		return identity.UserID, nil
	}
	if username == "" {
		return 0, &ValidationError{Field: "user", Reason: "required"}
	}

	user, err := rs.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, &NotFoundError{Resource: "user"}
		}
		return 0, err
	}
	return user.ID, nil
}

// CreateReservation books a spot and bumps the lot's reserved counter
func (rs *ReservationService) CreateReservation(ctx context.Context, identity *models.Identity, req *ReservationRequest) (*models.Reservation, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	ownerID, err := rs.resolveOwner(ctx, identity, req.User)
	if err != nil {
		return nil, err
	}

	reservation := &models.Reservation{
		UserID:       ownerID,
		ParkingLotID: req.ParkingLotID,
		LicensePlate: models.NormalizePlate(req.LicensePlate),
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
	}

	if err := rs.store.CreateReservationTx(ctx, reservation); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &NotFoundError{Resource: "parking lot"}
		}
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}

	rs.logger.Info("Reservation created",
		zap.Int64("reservation_id", reservation.ID),
		zap.Int64("lot_id", reservation.ParkingLotID),
		zap.Int64("user_id", reservation.UserID))
	return reservation, nil
}

// getOwnedReservation loads a reservation and enforces ownership for
// non-privileged callers
func (rs *ReservationService) getOwnedReservation(ctx context.Context, identity *models.Identity, id int64) (*models.Reservation, error) {
	reservation, err := rs.store.GetReservationByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &NotFoundError{Resource: "reservation"}
		}
		return nil, err
	}
	if reservation.UserID != identity.UserID && !identity.IsAdmin() {
		return nil, &AuthorizationError{Reason: "access denied"}
	}
	return reservation, nil
}

// GetReservation returns one reservation, enforcing ownership
func (rs *ReservationService) GetReservation(ctx context.Context, identity *models.Identity, id int64) (*models.Reservation, error) {
	return rs.getOwnedReservation(ctx, identity, id)
}

// ListReservations returns the caller's reservations
func (rs *ReservationService) ListReservations(ctx context.Context, identity *models.Identity) ([]models.Reservation, error) {
	return rs.store.GetReservationsByUserID(ctx, identity.UserID)
}

// UpdateReservation rewrites the plate and time window of a reservation.
// The reserved counter is untouched.
func (rs *ReservationService) UpdateReservation(ctx context.Context, identity *models.Identity, id int64, req *ReservationRequest) (*models.Reservation, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	reservation, err := rs.getOwnedReservation(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	reservation.LicensePlate = models.NormalizePlate(req.LicensePlate)
	reservation.StartTime = req.StartTime
	reservation.EndTime = req.EndTime

	if err := rs.store.UpdateReservation(ctx, reservation); err != nil {
		return nil, fmt.Errorf("failed to update reservation: %w", err)
	}
	return reservation, nil
}

// DeleteReservation cancels a booking and releases its spot on the lot's
// reserved counter
func (rs *ReservationService) DeleteReservation(ctx context.Context, identity *models.Identity, id int64) error {
	reservation, err := rs.getOwnedReservation(ctx, identity, id)
	if err != nil {
		return err
	}

	if err := rs.store.DeleteReservationTx(ctx, reservation.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &NotFoundError{Resource: "reservation"}
		}
		return fmt.Errorf("failed to delete reservation: %w", err)
	}

	rs.logger.Info("Reservation deleted",
		zap.Int64("reservation_id", reservation.ID),
		zap.Int64("lot_id", reservation.ParkingLotID))
	return nil
}
