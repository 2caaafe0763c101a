package store

import (
	"context"
)

// UserStats summarizes the user table
type UserStats struct {
	Total  int64 `db:"total" json:"total"`
	Admins int64 `db:"admins" json:"admins"`
	Recent int64 `db:"recent" json:"recent_new_users"`
}

// LotStats summarizes capacity across all parking lots
type LotStats struct {
	Total    int64 `db:"total" json:"total"`
	Capacity int64 `db:"capacity" json:"total_capacity"`
	Reserved int64 `db:"reserved" json:"total_reserved"`
}

// SessionStats summarizes the session table
type SessionStats struct {
	Total  int64 `db:"total" json:"total"`
	Active int64 `db:"active" json:"active"`
}

// PaymentStats summarizes money flow across all payments
type PaymentStats struct {
	Total   int64   `db:"total" json:"total_payments"`
	Revenue float64 `db:"revenue" json:"total_revenue"`
	Refunds float64 `db:"refunds" json:"total_refunds"`
	Net     float64 `db:"net" json:"net_revenue"`
	Pending int64   `db:"pending" json:"pending_payments"`
}

// DashboardStats is the system-wide overview served to operators
type DashboardStats struct {
	Users    UserStats    `json:"users"`
	Lots     LotStats     `json:"parking_lots"`
	Sessions SessionStats `json:"sessions"`
	Vehicles int64        `json:"vehicles"`
	Payments PaymentStats `json:"payments"`
}

// GetDashboardStats aggregates counters across every table
func (s *Store) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats

	userQuery := `
		SELECT COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE role = 'ADMIN') AS admins,
		       COUNT(*) FILTER (WHERE created_at >= NOW() - INTERVAL '30 days') AS recent
		FROM users`
	if err := s.db.GetContext(ctx, &stats.Users, userQuery); err != nil {
		return nil, err
	}

	lotQuery := `
		SELECT COUNT(*) AS total,
		       COALESCE(SUM(capacity), 0) AS capacity,
		       COALESCE(SUM(reserved), 0) AS reserved
		FROM parking_lots`
	if err := s.db.GetContext(ctx, &stats.Lots, lotQuery); err != nil {
		return nil, err
	}

	sessionQuery := `
		SELECT COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE stopped IS NULL) AS active
		FROM sessions`
	if err := s.db.GetContext(ctx, &stats.Sessions, sessionQuery); err != nil {
		return nil, err
	}

	if err := s.db.GetContext(ctx, &stats.Vehicles, `SELECT COUNT(*) FROM vehicles`); err != nil {
		return nil, err
	}

	paymentQuery := `
		SELECT COUNT(*) AS total,
		       COALESCE(SUM(amount) FILTER (WHERE amount > 0), 0) AS revenue,
		       COALESCE(ABS(SUM(amount) FILTER (WHERE amount < 0)), 0) AS refunds,
		       COALESCE(SUM(amount), 0) AS net,
		       COUNT(*) FILTER (WHERE NOT completed) AS pending
		FROM payments`
	if err := s.db.GetContext(ctx, &stats.Payments, paymentQuery); err != nil {
		return nil, err
	}

	return &stats, nil
}
