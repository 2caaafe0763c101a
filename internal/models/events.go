package models

import "time"

// Event types
const (
	EventTypeSessionStarted   = "SESSION_STARTED"
	EventTypeSessionStopped   = "SESSION_STOPPED"
	EventTypePaymentCreated   = "PAYMENT_CREATED"
	EventTypePaymentCompleted = "PAYMENT_COMPLETED"
	EventTypePaymentRefunded  = "PAYMENT_REFUNDED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionStartedEvent published when a parking session starts
type SessionStartedEvent struct {
	BaseEvent
	SessionID    int64     `json:"session_id"`
	ParkingLotID int64     `json:"parking_lot_id"`
	UserID       int64     `json:"user_id"`
	VehicleID    int64     `json:"vehicle_id"`
	LicensePlate string    `json:"license_plate"`
	Started      time.Time `json:"started"`
}

// SessionStoppedEvent published when a parking session stops. It carries no
// fee: pricing is computed lazily at billing time, never at stop time.
type SessionStoppedEvent struct {
	BaseEvent
	SessionID       int64     `json:"session_id"`
	ParkingLotID    int64     `json:"parking_lot_id"`
	UserID          int64     `json:"user_id"`
	VehicleID       int64     `json:"vehicle_id"`
	LicensePlate    string    `json:"license_plate"`
	Started         time.Time `json:"started"`
	Stopped         time.Time `json:"stopped"`
	DurationMinutes int64     `json:"duration_minutes"`
}

// PaymentCreatedEvent published when a payment is recorded. It never carries
// the validation hash.
type PaymentCreatedEvent struct {
	BaseEvent
	PaymentID     int64   `json:"payment_id"`
	TransactionID string  `json:"transaction_id"`
	UserID        int64   `json:"user_id"`
	Amount        float64 `json:"amount"`
	SessionID     *int64  `json:"session_id,omitempty"`
}

// PaymentCompletedEvent published when a payment is confirmed
type PaymentCompletedEvent struct {
	BaseEvent
	PaymentID     int64   `json:"payment_id"`
	TransactionID string  `json:"transaction_id"`
	UserID        int64   `json:"user_id"`
	Amount        float64 `json:"amount"`
	SessionID     *int64  `json:"session_id,omitempty"`
}

// PaymentRefundedEvent published when an admin issues a refund
type PaymentRefundedEvent struct {
	BaseEvent
	PaymentID     int64   `json:"payment_id"`
	TransactionID string  `json:"transaction_id"`
	UserID        int64   `json:"user_id"`
	Amount        float64 `json:"amount"`
	ProcessedBy   int64   `json:"processed_by"`
	SessionID     *int64  `json:"session_id,omitempty"`
}
