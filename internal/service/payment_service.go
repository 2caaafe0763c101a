package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	"parking-service/internal/broker"
	"parking-service/internal/models"
	"parking-service/internal/pricing"
	"parking-service/internal/store"
	"parking-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentService records, completes and refunds payments and computes
// billing views against the pricing engine
type PaymentService struct {
	store          *store.Store
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(store *store.Store, eventPublisher *broker.EventPublisher) *PaymentService {
	return &PaymentService{
		store:          store,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// generateValidationHash returns a fresh unguessable completion capability.
// It must reach nobody but the payment's creator: it is never logged and
// never published on events.
func generateValidationHash() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate validation hash: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// generateTransactionID returns a fresh transaction identifier
func generateTransactionID() string {
	return fmt.Sprintf("TXN-%s", uuid.New().String())
}

// applyProviderData copies provider metadata onto the payment row
func applyProviderData(p *models.Payment, d *models.ProviderData) {
	if d == nil {
		return
	}
	p.TMethod = &d.Method
	p.TIssuer = &d.Issuer
	p.TBank = &d.Bank
	p.TDate = &d.Date
	p.TAmount = &d.Amount
}

// CreatePaymentRequest represents a new payment
type CreatePaymentRequest struct {
	Amount        float64              `json:"amount"`
	TransactionID string               `json:"transaction,omitempty"`
	SessionID     *int64               `json:"session_id,omitempty"`
	Data          *models.ProviderData `json:"t_data,omitempty"`
}

// CreatePayment records a pending payment and returns it with the validation
// hash the caller must present at completion time. The hash is returned
// exactly once, here.
func (ps *PaymentService) CreatePayment(ctx context.Context, identity *models.Identity, req *CreatePaymentRequest) (*models.Payment, string, error) {
	ctx, span := util.StartSpan(ctx, "PaymentService.CreatePayment")
	defer span.End()

	if req.Amount <= 0 {
		return nil, "", &ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}

	payment := &models.Payment{
		Amount: req.Amount,
		UserID: identity.UserID,
	}

	if req.SessionID != nil {
		session, err := ps.store.GetSessionByID(ctx, *req.SessionID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, "", &NotFoundError{Resource: "session"}
			}
			return nil, "", fmt.Errorf("failed to resolve session: %w", err)
		}
		if session.UserID != identity.UserID && !identity.IsAdmin() {
			return nil, "", &AuthorizationError{Reason: "session belongs to another user"}
		}
		payment.SessionID = &session.ID
		payment.ParkingLotID = &session.ParkingLotID
	}

	payment.TransactionID = req.TransactionID
	if payment.TransactionID == "" {
		payment.TransactionID = generateTransactionID()
	}

	hash, err := generateValidationHash()
	if err != nil {
		return nil, "", err
	}
	payment.Hash = hash

	applyProviderData(payment, req.Data)

	if err := ps.store.CreatePayment(ctx, payment); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, "", &ConflictError{Reason: "transaction id already exists"}
		}
		return nil, "", fmt.Errorf("failed to create payment: %w", err)
	}

	util.PaymentsCreatedTotal.Inc()
	ps.logger.Info("Payment created",
		zap.String("transaction_id", payment.TransactionID),
		zap.Int64("user_id", payment.UserID),
		zap.Float64("amount", payment.Amount))

	event := &models.PaymentCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypePaymentCreated,
			Timestamp: time.Now(),
		},
		PaymentID:     payment.ID,
		TransactionID: payment.TransactionID,
		UserID:        payment.UserID,
		Amount:        payment.Amount,
		SessionID:     payment.SessionID,
	}

	if err := ps.eventPublisher.PublishPaymentCreated(ctx, event); err != nil {
		ps.logger.Error("Failed to publish PaymentCreated event", zap.Error(err))
	}

	return payment, hash, nil
}

// CompletePayment marks a payment completed after verifying the validation
// hash. The hash is the sole authorization: caller identity is not checked
// against the payment's owner. A repeated completion with the same hash
// re-applies and overwrites the provider metadata.
func (ps *PaymentService) CompletePayment(ctx context.Context, transactionID, validationHash string, data *models.ProviderData) (*models.Payment, error) {
	ctx, span := util.StartSpan(ctx, "PaymentService.CompletePayment")
	defer span.End()

	if data == nil {
		return nil, &ValidationError{Field: "t_data", Reason: "required"}
	}
	if validationHash == "" {
		return nil, &ValidationError{Field: "validation", Reason: "required"}
	}

	payment, err := ps.store.GetPaymentByTransactionID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &NotFoundError{Resource: "payment"}
		}
		return nil, fmt.Errorf("failed to load payment: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(payment.Hash), []byte(validationHash)) != 1 {
		util.PaymentsFailedTotal.WithLabelValues("hash_mismatch").Inc()
		ps.logger.Warn("Payment completion rejected",
			zap.String("transaction_id", transactionID))
		return nil, ErrValidationMismatch
	}

	completed, err := ps.store.CompletePayment(ctx, transactionID, payment.Hash, *data, time.Now())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &NotFoundError{Resource: "payment"}
		}
		return nil, fmt.Errorf("failed to complete payment: %w", err)
	}

	util.PaymentsCompletedTotal.Inc()
	ps.logger.Info("Payment completed",
		zap.String("transaction_id", completed.TransactionID),
		zap.Float64("amount", completed.Amount))

	event := &models.PaymentCompletedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypePaymentCompleted,
			Timestamp: time.Now(),
		},
		PaymentID:     completed.ID,
		TransactionID: completed.TransactionID,
		UserID:        completed.UserID,
		Amount:        completed.Amount,
		SessionID:     completed.SessionID,
	}

	if err := ps.eventPublisher.PublishPaymentCompleted(ctx, event); err != nil {
		ps.logger.Error("Failed to publish PaymentCompleted event", zap.Error(err))
	}

	return completed, nil
}

// RefundRequest represents an admin-issued refund. The recipient is the
// linked session's owner when a session is given, otherwise the explicitly
// named user.
type RefundRequest struct {
	Amount        float64 `json:"amount"`
	TransactionID string  `json:"transaction,omitempty"`
	SessionID     *int64  `json:"session_id,omitempty"`
	Recipient     string  `json:"recipient,omitempty"`
}

// RefundPayment records a negated, immediately-completed payment row.
// Privileged only.
func (ps *PaymentService) RefundPayment(ctx context.Context, identity *models.Identity, req *RefundRequest) (*models.Payment, error) {
	ctx, span := util.StartSpan(ctx, "PaymentService.RefundPayment")
	defer span.End()

	if !identity.IsAdmin() {
		return nil, &AuthorizationError{Reason: "admin role required"}
	}
	if req.Amount <= 0 {
		return nil, &ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}

	now := time.Now()
	payment := &models.Payment{
		Amount:      -math.Abs(req.Amount),
		ProcessedBy: &identity.UserID,
		Completed:   true,
		CompletedAt: &now,
	}

	switch {
	case req.SessionID != nil:
		session, err := ps.store.GetSessionByID(ctx, *req.SessionID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, &NotFoundError{Resource: "session"}
			}
			return nil, fmt.Errorf("failed to resolve session: %w", err)
		}
		payment.UserID = session.UserID
		payment.SessionID = &session.ID
		payment.ParkingLotID = &session.ParkingLotID

	case req.Recipient != "":
		user, err := ps.store.GetUserByUsername(ctx, req.Recipient)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, &NotFoundError{Resource: "user"}
			}
			return nil, fmt.Errorf("failed to resolve recipient: %w", err)
		}
		payment.UserID = user.ID

	default:
		return nil, &ValidationError{Field: "recipient", Reason: "session_id or recipient required"}
	}

	payment.TransactionID = req.TransactionID
	if payment.TransactionID == "" {
		payment.TransactionID = generateTransactionID()
	}

	hash, err := generateValidationHash()
	if err != nil {
		return nil, err
	}
	payment.Hash = hash

	if err := ps.store.CreatePayment(ctx, payment); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, &ConflictError{Reason: "transaction id already exists"}
		}
		return nil, fmt.Errorf("failed to create refund: %w", err)
	}

	util.PaymentsRefundedTotal.Inc()
	ps.logger.Info("Refund issued",
		zap.String("transaction_id", payment.TransactionID),
		zap.Int64("recipient_id", payment.UserID),
		zap.Float64("amount", payment.Amount),
		zap.Int64("processed_by", identity.UserID))

	event := &models.PaymentRefundedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypePaymentRefunded,
			Timestamp: time.Now(),
		},
		PaymentID:     payment.ID,
		TransactionID: payment.TransactionID,
		UserID:        payment.UserID,
		Amount:        payment.Amount,
		ProcessedBy:   identity.UserID,
		SessionID:     payment.SessionID,
	}

	if err := ps.eventPublisher.PublishPaymentRefunded(ctx, event); err != nil {
		ps.logger.Error("Failed to publish PaymentRefunded event", zap.Error(err))
	}

	return payment, nil
}

// ListPayments returns the caller's own payment rows
func (ps *PaymentService) ListPayments(ctx context.Context, identity *models.Identity) ([]models.Payment, error) {
	return ps.store.GetPaymentsByUserID(ctx, identity.UserID)
}

// ListUserPayments returns another user's payment rows. Privileged only.
func (ps *PaymentService) ListUserPayments(ctx context.Context, identity *models.Identity, username string) ([]models.Payment, error) {
	if !identity.IsAdmin() {
		return nil, &AuthorizationError{Reason: "admin role required"}
	}

	user, err := ps.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &NotFoundError{Resource: "user"}
		}
		return nil, err
	}
	return ps.store.GetPaymentsByUserID(ctx, user.ID)
}

// BillingSession is the session slice of one billing entry
type BillingSession struct {
	SessionID    int64      `json:"session_id"`
	LicensePlate string     `json:"license_plate"`
	Started      time.Time  `json:"started"`
	Stopped      *time.Time `json:"stopped"`
	Hours        int        `json:"hours"`
	Days         int        `json:"days"`
}

// BillingLot is the tariff snapshot of one billing entry
type BillingLot struct {
	Name      string  `json:"name"`
	Location  string  `json:"location"`
	Tariff    float64 `json:"tariff"`
	DayTariff float64 `json:"daytariff"`
}

// BillingEntry is one session priced fresh against the lot's current tariff,
// with the payments linked to it summed up
type BillingEntry struct {
	Session BillingSession `json:"session"`
	Parking BillingLot     `json:"parking"`
	Amount  float64        `json:"amount"`
	Paid    float64        `json:"paid"`
	Balance float64        `json:"balance"`
}

// GetBilling prices every session of a user and reconciles it against the
// linked payments. Nothing is cached or persisted: the view is recomputed
// from the current tariff and payment state on every call, so two calls
// without intervening writes return identical output.
func (ps *PaymentService) GetBilling(ctx context.Context, identity *models.Identity, targetUserID int64) ([]BillingEntry, error) {
	ctx, span := util.StartSpan(ctx, "PaymentService.GetBilling")
	defer span.End()

	start := time.Now()
	defer func() {
		util.BillingRequestLatency.Observe(time.Since(start).Seconds())
	}()

	if targetUserID != identity.UserID && !identity.IsAdmin() {
		return nil, &AuthorizationError{Reason: "access denied"}
	}

	sessions, err := ps.store.GetSessionsByUserID(ctx, targetUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}

	lots := make(map[int64]*models.ParkingLot)
	entries := make([]BillingEntry, 0, len(sessions))

	for i := range sessions {
		session := &sessions[i]

		lot, ok := lots[session.ParkingLotID]
		if !ok {
			lot, err = ps.store.GetLotByID(ctx, session.ParkingLotID)
			if err != nil {
				return nil, fmt.Errorf("failed to load lot %d: %w", session.ParkingLotID, err)
			}
			lots[session.ParkingLotID] = lot
		}

		quote := pricing.Calculate(pricing.Tariff{Hourly: lot.Tariff, Daily: lot.DayTariff},
			session.Started, session.Stopped)

		paid, err := ps.store.SumPaymentsBySessionID(ctx, session.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to sum payments for session %d: %w", session.ID, err)
		}

		entries = append(entries, BillingEntry{
			Session: BillingSession{
				SessionID:    session.ID,
				LicensePlate: session.LicensePlate,
				Started:      session.Started,
				Stopped:      session.Stopped,
				Hours:        quote.Hours,
				Days:         quote.Days,
			},
			Parking: BillingLot{
				Name:      lot.Name,
				Location:  lot.Location,
				Tariff:    lot.Tariff,
				DayTariff: lot.DayTariff,
			},
			Amount:  quote.Fee,
			Paid:    paid,
			Balance: quote.Fee - paid,
		})
	}

	return entries, nil
}

// GetUserBilling resolves a username and prices that user's sessions.
// Privileged only; the admin check runs before the lookup so probing for
// usernames yields nothing.
func (ps *PaymentService) GetUserBilling(ctx context.Context, identity *models.Identity, username string) ([]BillingEntry, error) {
	if !identity.IsAdmin() {
		return nil, &AuthorizationError{Reason: "admin role required"}
	}

	user, err := ps.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &NotFoundError{Resource: "user"}
		}
		return nil, err
	}
	return ps.GetBilling(ctx, identity, user.ID)
}
