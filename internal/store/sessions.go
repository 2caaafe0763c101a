package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"parking-service/internal/models"
)

// StartSessionTx starts a parking session for (lot, user, plate) in one
// transaction: verify the lot, resolve or auto-register the vehicle, check
// for an active session, insert. The partial unique index backs the check,
// so a concurrent start that slips past the read fails the insert with
// ErrDuplicate instead of creating a second active session.
func (s *Store) StartSessionTx(ctx context.Context, lotID, userID int64, plate, displayPlate string) (*models.Session, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var lotExists bool
	err = tx.GetContext(ctx, &lotExists,
		"SELECT EXISTS(SELECT 1 FROM parking_lots WHERE id = $1)", lotID)
	if err != nil {
		return nil, fmt.Errorf("failed to check parking lot: %w", err)
	}
	if !lotExists {
		return nil, fmt.Errorf("parking lot %d: %w", lotID, ErrNotFound)
	}

	// First-seen plates are auto-registered to the caller
	var vehicle models.Vehicle
	err = tx.GetContext(ctx, &vehicle, `
		INSERT INTO vehicles (user_id, license_plate, display_plate)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, license_plate) DO UPDATE SET updated_at = NOW()
		RETURNING *`,
		userID, plate, displayPlate)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve vehicle: %w", err)
	}

	var active bool
	err = tx.GetContext(ctx, &active,
		"SELECT EXISTS(SELECT 1 FROM sessions WHERE parking_lot_id = $1 AND vehicle_id = $2 AND stopped IS NULL)",
		lotID, vehicle.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check active session: %w", err)
	}
	if active {
		return nil, fmt.Errorf("active session for vehicle %d at lot %d: %w", vehicle.ID, lotID, ErrDuplicate)
	}

	var session models.Session
	err = tx.GetContext(ctx, &session, `
		INSERT INTO sessions (parking_lot_id, user_id, vehicle_id, license_plate, started, payment_status)
		VALUES ($1, $2, $3, $4, NOW(), $5)
		RETURNING *`,
		lotID, userID, vehicle.ID, plate, models.PaymentStatusUnpaid)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("active session for vehicle %d at lot %d: %w", vehicle.ID, lotID, ErrDuplicate)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to insert session: %w", err)
	}

	return &session, tx.Commit()
}

// StopSession closes the active session for (lot, vehicle) with a single
// conditional update. Returns ErrNoActiveSession when no row with a null
// stopped timestamp matched.
func (s *Store) StopSession(ctx context.Context, lotID, vehicleID int64, stoppedAt time.Time) (*models.Session, error) {
	var session models.Session
	err := s.db.GetContext(ctx, &session, `
		UPDATE sessions SET stopped = $1
		WHERE parking_lot_id = $2 AND vehicle_id = $3 AND stopped IS NULL
		RETURNING *`,
		stoppedAt, lotID, vehicleID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("vehicle %d at lot %d: %w", vehicleID, lotID, ErrNoActiveSession)
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// GetSessionByID retrieves a session by ID
func (s *Store) GetSessionByID(ctx context.Context, id int64) (*models.Session, error) {
	var session models.Session
	err := s.db.GetContext(ctx, &session, "SELECT * FROM sessions WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// GetSessionsByLot retrieves all sessions at a lot
func (s *Store) GetSessionsByLot(ctx context.Context, lotID int64) ([]models.Session, error) {
	var sessions []models.Session
	err := s.db.SelectContext(ctx, &sessions,
		"SELECT * FROM sessions WHERE parking_lot_id = $1 ORDER BY started DESC", lotID)
	return sessions, err
}

// GetSessionsByLotAndUser retrieves a user's sessions at a lot
func (s *Store) GetSessionsByLotAndUser(ctx context.Context, lotID, userID int64) ([]models.Session, error) {
	var sessions []models.Session
	err := s.db.SelectContext(ctx, &sessions,
		"SELECT * FROM sessions WHERE parking_lot_id = $1 AND user_id = $2 ORDER BY started DESC",
		lotID, userID)
	return sessions, err
}

// GetSessionsByUserID retrieves all sessions of a user across lots
func (s *Store) GetSessionsByUserID(ctx context.Context, userID int64) ([]models.Session, error) {
	var sessions []models.Session
	err := s.db.SelectContext(ctx, &sessions,
		"SELECT * FROM sessions WHERE user_id = $1 ORDER BY started DESC", userID)
	return sessions, err
}

// GetActiveSessions retrieves every session that has not been stopped yet
func (s *Store) GetActiveSessions(ctx context.Context) ([]models.Session, error) {
	var sessions []models.Session
	err := s.db.SelectContext(ctx, &sessions,
		"SELECT * FROM sessions WHERE stopped IS NULL ORDER BY started")
	return sessions, err
}

// DeleteSessionTx hard-deletes a session. The delete is refused with
// ErrReferenced while payment rows still link to the session, so payments
// never dangle.
func (s *Store) DeleteSessionTx(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var linked int
	err = tx.GetContext(ctx, &linked,
		"SELECT COUNT(*) FROM payments WHERE session_id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to count linked payments: %w", err)
	}
	if linked > 0 {
		return fmt.Errorf("session %d has %d payments: %w", id, linked, ErrReferenced)
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM sessions WHERE id = $1", id)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("session %d: %w", id, ErrReferenced)
	}
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("session %d: %w", id, ErrNotFound)
	}

	return tx.Commit()
}
