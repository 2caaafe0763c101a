package service

import (
	"context"
	"fmt"

	"parking-service/internal/models"
	"parking-service/internal/store"
	"parking-service/internal/util"

	"go.uber.org/zap"
)

// AdminService serves operator-facing overviews
type AdminService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(store *store.Store) *AdminService {
	return &AdminService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// Dashboard returns system-wide counters. Privileged only.
func (as *AdminService) Dashboard(ctx context.Context, identity *models.Identity) (*store.DashboardStats, error) {
	if !identity.IsAdmin() {
		return nil, &AuthorizationError{Reason: "admin role required"}
	}

	stats, err := as.store.GetDashboardStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate dashboard stats: %w", err)
	}

	as.logger.Info("Dashboard accessed", zap.String("username", identity.Username))
	return stats, nil
}
