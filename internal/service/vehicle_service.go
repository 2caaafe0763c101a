package service

import (
	"context"
	"errors"
	"fmt"

	"parking-service/internal/models"
	"parking-service/internal/store"
	"parking-service/internal/util"

	"go.uber.org/zap"
)

// VehicleService manages a user's registered vehicles. Vehicles are
// addressed by license plate within the caller's own garage; the plate is
// unique per user, not globally.
type VehicleService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewVehicleService creates a new vehicle service
func NewVehicleService(store *store.Store) *VehicleService {
	return &VehicleService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// VehicleRequest represents vehicle registration data
type VehicleRequest struct {
	LicensePlate string `json:"license_plate"`
	Name         string `json:"name"`
	Make         string `json:"make"`
	Model        string `json:"model"`
	Color        string `json:"color"`
	Year         int    `json:"year"`
}

// CreateVehicle registers a vehicle under the caller's account
func (vs *VehicleService) CreateVehicle(ctx context.Context, identity *models.Identity, req *VehicleRequest) (*models.Vehicle, error) {
	if req.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "required"}
	}
	if req.LicensePlate == "" {
		return nil, &ValidationError{Field: "license_plate", Reason: "required"}
	}
	if !ValidLicensePlate(req.LicensePlate) {
		return nil, &ValidationError{Field: "license_plate", Reason: "must be 2-15 alphanumeric characters"}
	}

	vehicle := &models.Vehicle{
		UserID:       identity.UserID,
		LicensePlate: models.NormalizePlate(req.LicensePlate),
		DisplayPlate: req.LicensePlate,
		Name:         req.Name,
		Make:         req.Make,
		Model:        req.Model,
		Color:        req.Color,
		Year:         req.Year,
	}

	if err := vs.store.CreateVehicle(ctx, vehicle); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, &ConflictError{Reason: "vehicle already registered"}
		}
		return nil, fmt.Errorf("failed to create vehicle: %w", err)
	}

	vs.logger.Info("Vehicle registered",
		zap.Int64("vehicle_id", vehicle.ID),
		zap.Int64("user_id", identity.UserID))
	return vehicle, nil
}

// ListVehicles returns the caller's vehicles
func (vs *VehicleService) ListVehicles(ctx context.Context, identity *models.Identity) ([]models.Vehicle, error) {
	return vs.store.GetVehiclesByUserID(ctx, identity.UserID)
}

// ListUserVehicles returns another user's vehicles. Privileged only.
func (vs *VehicleService) ListUserVehicles(ctx context.Context, identity *models.Identity, username string) ([]models.Vehicle, error) {
	if !identity.IsAdmin() {
		return nil, &AuthorizationError{Reason: "admin role required"}
	}

	user, err := vs.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &NotFoundError{Resource: "user"}
		}
		return nil, err
	}
	return vs.store.GetVehiclesByUserID(ctx, user.ID)
}

// UpdateVehicle updates the descriptive fields of the caller's vehicle with
// the given plate, registering it first when unseen. The plate in the URL is
// canonical; a plate in the body is ignored.
func (vs *VehicleService) UpdateVehicle(ctx context.Context, identity *models.Identity, plate string, req *VehicleRequest) (*models.Vehicle, error) {
	if req.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "required"}
	}
	if !ValidLicensePlate(plate) {
		return nil, &ValidationError{Field: "license_plate", Reason: "must be 2-15 alphanumeric characters"}
	}

	vehicle, err := vs.store.GetVehicleByUserAndPlate(ctx, identity.UserID, models.NormalizePlate(plate))
	if errors.Is(err, store.ErrNotFound) {
		vehicle = &models.Vehicle{
			UserID:       identity.UserID,
			LicensePlate: models.NormalizePlate(plate),
			DisplayPlate: plate,
		}
		vs.applyDescription(vehicle, req)
		if err := vs.store.CreateVehicle(ctx, vehicle); err != nil {
			return nil, fmt.Errorf("failed to register vehicle: %w", err)
		}
		return vehicle, nil
	}
	if err != nil {
		return nil, err
	}

	vs.applyDescription(vehicle, req)
	if err := vs.store.UpdateVehicle(ctx, vehicle); err != nil {
		return nil, fmt.Errorf("failed to update vehicle: %w", err)
	}
	return vehicle, nil
}

func (vs *VehicleService) applyDescription(vehicle *models.Vehicle, req *VehicleRequest) {
	vehicle.Name = req.Name
	vehicle.Make = req.Make
	vehicle.Model = req.Model
	vehicle.Color = req.Color
	vehicle.Year = req.Year
}

// DeleteVehicle removes the caller's vehicle with the given plate. Refused
// while sessions still reference it.
func (vs *VehicleService) DeleteVehicle(ctx context.Context, identity *models.Identity, plate string) error {
	vehicle, err := vs.store.GetVehicleByUserAndPlate(ctx, identity.UserID, models.NormalizePlate(plate))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &NotFoundError{Resource: "vehicle"}
		}
		return err
	}

	err = vs.store.DeleteVehicle(ctx, vehicle.ID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return &NotFoundError{Resource: "vehicle"}
	case errors.Is(err, store.ErrReferenced):
		return &ConflictError{Reason: "sessions still reference this vehicle"}
	}
	return err
}
