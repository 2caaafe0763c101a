package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"parking-service/internal/models"
)

// CreateReservationTx inserts a reservation and bumps the lot's reserved
// counter in the same transaction
func (s *Store) CreateReservationTx(ctx context.Context, r *models.Reservation) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var lotExists bool
	err = tx.GetContext(ctx, &lotExists,
		"SELECT EXISTS(SELECT 1 FROM parking_lots WHERE id = $1)", r.ParkingLotID)
	if err != nil {
		return fmt.Errorf("failed to check parking lot: %w", err)
	}
	if !lotExists {
		return fmt.Errorf("parking lot %d: %w", r.ParkingLotID, ErrNotFound)
	}

	err = tx.GetContext(ctx, r, `
		INSERT INTO reservations (user_id, parking_lot_id, license_plate, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		r.UserID, r.ParkingLotID, r.LicensePlate, r.StartTime, r.EndTime)
	if err != nil {
		return fmt.Errorf("failed to insert reservation: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE parking_lots SET reserved = reserved + 1 WHERE id = $1", r.ParkingLotID)
	if err != nil {
		return fmt.Errorf("failed to bump reserved count: %w", err)
	}

	return tx.Commit()
}

// GetReservationByID retrieves a reservation by ID
func (s *Store) GetReservationByID(ctx context.Context, id int64) (*models.Reservation, error) {
	var r models.Reservation
	err := s.db.GetContext(ctx, &r, "SELECT * FROM reservations WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("reservation %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetReservationsByUserID retrieves all reservations of a user
func (s *Store) GetReservationsByUserID(ctx context.Context, userID int64) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := s.db.SelectContext(ctx, &reservations,
		"SELECT * FROM reservations WHERE user_id = $1 ORDER BY start_time", userID)
	return reservations, err
}

// UpdateReservation updates a reservation's plate and time window. The
// reserved counter is untouched because the reservation still exists.
func (s *Store) UpdateReservation(ctx context.Context, r *models.Reservation) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE reservations
		SET license_plate = $1, start_time = $2, end_time = $3
		WHERE id = $4`,
		r.LicensePlate, r.StartTime, r.EndTime, r.ID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("reservation %d: %w", r.ID, ErrNotFound)
	}
	return nil
}

// DeleteReservationTx removes a reservation and releases its spot on the
// lot's reserved counter in the same transaction
func (s *Store) DeleteReservationTx(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var lotID int64
	err = tx.GetContext(ctx, &lotID,
		"DELETE FROM reservations WHERE id = $1 RETURNING parking_lot_id", id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("reservation %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE parking_lots SET reserved = GREATEST(reserved - 1, 0) WHERE id = $1", lotID)
	if err != nil {
		return fmt.Errorf("failed to release reserved count: %w", err)
	}

	return tx.Commit()
}
