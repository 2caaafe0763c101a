package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"parking-service/internal/broker"
	"parking-service/internal/models"
	"parking-service/internal/store"
	"parking-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionService owns the start/stop state machine for parking sessions
type SessionService struct {
	store          *store.Store
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewSessionService creates a new session service
func NewSessionService(store *store.Store, eventPublisher *broker.EventPublisher) *SessionService {
	return &SessionService{
		store:          store,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// StartSession opens a session for the caller's vehicle at a lot. The plate
// is normalized before lookup and first-seen plates register a new vehicle.
func (ss *SessionService) StartSession(ctx context.Context, lotID int64, identity *models.Identity, licensePlate string) (*models.Session, error) {
	ctx, span := util.StartSpan(ctx, "SessionService.StartSession")
	defer span.End()

	if licensePlate == "" {
		return nil, &ValidationError{Field: "licenseplate", Reason: "required"}
	}
	if !ValidLicensePlate(licensePlate) {
		return nil, &ValidationError{Field: "licenseplate", Reason: "must be 2-15 alphanumeric characters"}
	}

	plate := models.NormalizePlate(licensePlate)

	session, err := ss.store.StartSessionTx(ctx, lotID, identity.UserID, plate, licensePlate)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			util.SessionStartsFailedTotal.WithLabelValues("lot_not_found").Inc()
			return nil, &NotFoundError{Resource: "parking lot"}
		case errors.Is(err, store.ErrDuplicate):
			util.SessionStartsFailedTotal.WithLabelValues("already_active").Inc()
			return nil, &ConflictError{Reason: "active session already exists for this vehicle at this lot"}
		default:
			util.SessionStartsFailedTotal.WithLabelValues("db_error").Inc()
			return nil, fmt.Errorf("failed to start session: %w", err)
		}
	}

	util.SessionsStartedTotal.Inc()
	ss.logger.Info("Session started",
		zap.Int64("session_id", session.ID),
		zap.Int64("lot_id", lotID),
		zap.Int64("vehicle_id", session.VehicleID))

	event := &models.SessionStartedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeSessionStarted,
			Timestamp: time.Now(),
		},
		SessionID:    session.ID,
		ParkingLotID: session.ParkingLotID,
		UserID:       session.UserID,
		VehicleID:    session.VehicleID,
		LicensePlate: session.LicensePlate,
		Started:      session.Started,
	}

	if err := ss.eventPublisher.PublishSessionStarted(ctx, event); err != nil {
		ss.logger.Error("Failed to publish SessionStarted event", zap.Error(err))
	}

	return session, nil
}

// StopSession closes the caller's active session at a lot. No fee is
// computed here; billing prices the closed range on demand.
func (ss *SessionService) StopSession(ctx context.Context, lotID int64, identity *models.Identity, licensePlate string) (*models.Session, error) {
	ctx, span := util.StartSpan(ctx, "SessionService.StopSession")
	defer span.End()

	if licensePlate == "" {
		return nil, &ValidationError{Field: "licenseplate", Reason: "required"}
	}

	plate := models.NormalizePlate(licensePlate)

	vehicle, err := ss.store.GetVehicleByUserAndPlate(ctx, identity.UserID, plate)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &NotFoundError{Resource: "vehicle"}
		}
		return nil, fmt.Errorf("failed to resolve vehicle: %w", err)
	}

	session, err := ss.store.StopSession(ctx, lotID, vehicle.ID, time.Now())
	if err != nil {
		if errors.Is(err, store.ErrNoActiveSession) {
			return nil, &ConflictError{Reason: "no active session for this vehicle at this lot"}
		}
		return nil, fmt.Errorf("failed to stop session: %w", err)
	}

	duration := session.DurationMinutes(time.Now())
	util.SessionsStoppedTotal.Inc()
	util.SessionDurationMinutes.Observe(float64(duration))
	ss.logger.Info("Session stopped",
		zap.Int64("session_id", session.ID),
		zap.Int64("lot_id", lotID),
		zap.Int64("duration_minutes", duration))

	event := &models.SessionStoppedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeSessionStopped,
			Timestamp: time.Now(),
		},
		SessionID:       session.ID,
		ParkingLotID:    session.ParkingLotID,
		UserID:          session.UserID,
		VehicleID:       session.VehicleID,
		LicensePlate:    session.LicensePlate,
		Started:         session.Started,
		Stopped:         *session.Stopped,
		DurationMinutes: duration,
	}

	if err := ss.eventPublisher.PublishSessionStopped(ctx, event); err != nil {
		ss.logger.Error("Failed to publish SessionStopped event", zap.Error(err))
	}

	return session, nil
}

// ListSessions returns the sessions at a lot. Non-privileged callers only
// see their own rows.
func (ss *SessionService) ListSessions(ctx context.Context, lotID int64, identity *models.Identity) ([]models.Session, error) {
	if _, err := ss.store.GetLotByID(ctx, lotID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &NotFoundError{Resource: "parking lot"}
		}
		return nil, err
	}

	if identity.IsAdmin() {
		return ss.store.GetSessionsByLot(ctx, lotID)
	}
	return ss.store.GetSessionsByLotAndUser(ctx, lotID, identity.UserID)
}

// GetSession returns one session, enforcing ownership for non-privileged
// callers
func (ss *SessionService) GetSession(ctx context.Context, lotID, sessionID int64, identity *models.Identity) (*models.Session, error) {
	session, err := ss.store.GetSessionByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &NotFoundError{Resource: "session"}
		}
		return nil, err
	}

	if session.ParkingLotID != lotID {
		return nil, &NotFoundError{Resource: "session"}
	}
	if session.UserID != identity.UserID && !identity.IsAdmin() {
		return nil, &AuthorizationError{Reason: "access denied"}
	}

	return session, nil
}

// DeleteSession hard-deletes a session. Privileged only; refused while
// payments still reference the session.
func (ss *SessionService) DeleteSession(ctx context.Context, sessionID int64, identity *models.Identity) error {
	if !identity.IsAdmin() {
		return &AuthorizationError{Reason: "admin role required"}
	}

	err := ss.store.DeleteSessionTx(ctx, sessionID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return &NotFoundError{Resource: "session"}
	case errors.Is(err, store.ErrReferenced):
		return &ConflictError{Reason: "payments still reference this session"}
	}
	return err
}

// ActiveSessions returns every open session across all lots. Privileged
// only.
func (ss *SessionService) ActiveSessions(ctx context.Context, identity *models.Identity) ([]models.Session, error) {
	if !identity.IsAdmin() {
		return nil, &AuthorizationError{Reason: "admin role required"}
	}
	return ss.store.GetActiveSessions(ctx)
}
