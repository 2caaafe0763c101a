package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"parking-service/internal/models"
)

// CreateLot inserts a new parking lot
func (s *Store) CreateLot(ctx context.Context, lot *models.ParkingLot) error {
	query := `
		INSERT INTO parking_lots (name, location, address, capacity, reserved, tariff, daytariff, lat, lng)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, lot, query,
		lot.Name, lot.Location, lot.Address, lot.Capacity, lot.Reserved,
		lot.Tariff, lot.DayTariff, lot.Lat, lot.Lng)
}

// GetLotByID retrieves a parking lot by ID
func (s *Store) GetLotByID(ctx context.Context, id int64) (*models.ParkingLot, error) {
	var lot models.ParkingLot
	err := s.db.GetContext(ctx, &lot, "SELECT * FROM parking_lots WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("parking lot %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &lot, nil
}

// GetLots retrieves all parking lots
func (s *Store) GetLots(ctx context.Context) ([]models.ParkingLot, error) {
	var lots []models.ParkingLot
	err := s.db.SelectContext(ctx, &lots, "SELECT * FROM parking_lots ORDER BY id")
	return lots, err
}

// UpdateLot updates a parking lot's configuration
func (s *Store) UpdateLot(ctx context.Context, lot *models.ParkingLot) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE parking_lots
		SET name = $1, location = $2, address = $3, capacity = $4,
		    tariff = $5, daytariff = $6, lat = $7, lng = $8
		WHERE id = $9`,
		lot.Name, lot.Location, lot.Address, lot.Capacity,
		lot.Tariff, lot.DayTariff, lot.Lat, lot.Lng, lot.ID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("parking lot %d: %w", lot.ID, ErrNotFound)
	}
	return nil
}

// DeleteLot removes a parking lot. Returns ErrReferenced while sessions,
// payments or reservations still point at it.
func (s *Store) DeleteLot(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM parking_lots WHERE id = $1", id)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("parking lot %d: %w", id, ErrReferenced)
	}
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("parking lot %d: %w", id, ErrNotFound)
	}
	return nil
}

// AdjustLotReserved moves the reserved counter by delta (positive or
// negative), clamped at zero
func (s *Store) AdjustLotReserved(ctx context.Context, lotID int64, delta int) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE parking_lots SET reserved = GREATEST(reserved + $1, 0) WHERE id = $2",
		delta, lotID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("parking lot %d: %w", lotID, ErrNotFound)
	}
	return nil
}
