package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"parking-service/internal/models"
)

// CreateVehicle inserts a new vehicle. LicensePlate must already be in
// normalized form. Returns ErrDuplicate when the owner already registered
// that plate.
func (s *Store) CreateVehicle(ctx context.Context, v *models.Vehicle) error {
	query := `
		INSERT INTO vehicles (user_id, license_plate, display_plate, name, make, model, color, year)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	err := s.db.GetContext(ctx, v, query,
		v.UserID, v.LicensePlate, v.DisplayPlate, v.Name, v.Make, v.Model, v.Color, v.Year)
	if isUniqueViolation(err) {
		return fmt.Errorf("vehicle %s: %w", v.LicensePlate, ErrDuplicate)
	}
	return err
}

// GetVehicleByUserAndPlate retrieves the vehicle a user registered under the
// given normalized plate
func (s *Store) GetVehicleByUserAndPlate(ctx context.Context, userID int64, plate string) (*models.Vehicle, error) {
	var v models.Vehicle
	err := s.db.GetContext(ctx, &v,
		"SELECT * FROM vehicles WHERE user_id = $1 AND license_plate = $2", userID, plate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("vehicle %s: %w", plate, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// GetVehiclesByUserID retrieves all vehicles owned by a user
func (s *Store) GetVehiclesByUserID(ctx context.Context, userID int64) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	err := s.db.SelectContext(ctx, &vehicles,
		"SELECT * FROM vehicles WHERE user_id = $1 ORDER BY id", userID)
	return vehicles, err
}

// UpdateVehicle updates the descriptive fields of a vehicle
func (s *Store) UpdateVehicle(ctx context.Context, v *models.Vehicle) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE vehicles
		SET name = $1, make = $2, model = $3, color = $4, year = $5, updated_at = NOW()
		WHERE id = $6`,
		v.Name, v.Make, v.Model, v.Color, v.Year, v.ID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("vehicle %d: %w", v.ID, ErrNotFound)
	}
	return nil
}

// DeleteVehicle removes a vehicle. Returns ErrReferenced while sessions
// still point at it.
func (s *Store) DeleteVehicle(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM vehicles WHERE id = $1", id)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("vehicle %d: %w", id, ErrReferenced)
	}
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("vehicle %d: %w", id, ErrNotFound)
	}
	return nil
}
