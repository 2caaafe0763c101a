package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"parking-service/internal/models"
)

// CreatePayment inserts a new payment record. Returns ErrDuplicate when the
// transaction ID is already taken.
func (s *Store) CreatePayment(ctx context.Context, p *models.Payment) error {
	query := `
		INSERT INTO payments (transaction_id, amount, user_id, session_id, parking_lot_id,
			processed_by, completed, completed_at, hash, t_method, t_issuer, t_bank, t_date, t_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at`

	err := s.db.GetContext(ctx, p, query,
		p.TransactionID, p.Amount, p.UserID, p.SessionID, p.ParkingLotID,
		p.ProcessedBy, p.Completed, p.CompletedAt, p.Hash,
		p.TMethod, p.TIssuer, p.TBank, p.TDate, p.TAmount)
	if isUniqueViolation(err) {
		return fmt.Errorf("transaction %s: %w", p.TransactionID, ErrDuplicate)
	}
	return err
}

// GetPaymentByTransactionID retrieves a payment by its transaction ID
func (s *Store) GetPaymentByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error) {
	var p models.Payment
	err := s.db.GetContext(ctx, &p,
		"SELECT * FROM payments WHERE transaction_id = $1", transactionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %s: %w", transactionID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPaymentsByUserID retrieves all payments a user initiated or processed
func (s *Store) GetPaymentsByUserID(ctx context.Context, userID int64) ([]models.Payment, error) {
	var payments []models.Payment
	err := s.db.SelectContext(ctx, &payments,
		"SELECT * FROM payments WHERE user_id = $1 OR processed_by = $1 ORDER BY created_at DESC", userID)
	return payments, err
}

// SumPaymentsBySessionID returns the sum of all payment amounts linked to a
// session. Refund rows carry negative amounts so they subtract naturally.
func (s *Store) SumPaymentsBySessionID(ctx context.Context, sessionID int64) (float64, error) {
	var total float64
	err := s.db.GetContext(ctx, &total,
		"SELECT COALESCE(SUM(amount), 0) FROM payments WHERE session_id = $1", sessionID)
	return total, err
}

// CompletePayment marks a payment completed and stores the provider
// metadata, overwriting whatever a previous completion stored. The stored
// hash guards the update so the write cannot race the caller's hash check.
func (s *Store) CompletePayment(ctx context.Context, transactionID, hash string, data models.ProviderData, completedAt time.Time) (*models.Payment, error) {
	var p models.Payment
	err := s.db.GetContext(ctx, &p, `
		UPDATE payments
		SET completed = TRUE, completed_at = $1,
		    t_method = $2, t_issuer = $3, t_bank = $4, t_date = $5, t_amount = $6
		WHERE transaction_id = $7 AND hash = $8
		RETURNING *`,
		completedAt, data.Method, data.Issuer, data.Bank, data.Date, data.Amount,
		transactionID, hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %s: %w", transactionID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
