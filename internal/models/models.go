package models

import (
	"strings"
	"time"
)

// User represents a registered account. Password holds a bcrypt hash and is
// never serialized.
type User struct {
	ID        int64     `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	Password  string    `db:"password" json:"-"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	Role      string    `db:"role" json:"role"`
	BirthYear int       `db:"birth_year" json:"birth_year"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Identity is the authenticated caller attached to a request by the session
// token store
type Identity struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// IsAdmin reports whether the identity holds the privileged role
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// ParkingLot represents a lot and its tariff configuration. Tariff is the
// hourly rate; DayTariff caps a same-day stay and prices multi-day stays.
type ParkingLot struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Location  string    `db:"location" json:"location"`
	Address   string    `db:"address" json:"address"`
	Capacity  int       `db:"capacity" json:"capacity"`
	Reserved  int       `db:"reserved" json:"reserved"`
	Tariff    float64   `db:"tariff" json:"tariff"`
	DayTariff float64   `db:"daytariff" json:"daytariff"`
	Lat       float64   `db:"lat" json:"lat"`
	Lng       float64   `db:"lng" json:"lng"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Vehicle represents a vehicle owned by one user. LicensePlate is the
// normalized form and is unique per owner; DisplayPlate keeps the plate as
// the user typed it.
type Vehicle struct {
	ID           int64     `db:"id" json:"id"`
	UserID       int64     `db:"user_id" json:"user_id"`
	LicensePlate string    `db:"license_plate" json:"license_plate"`
	DisplayPlate string    `db:"display_plate" json:"display_plate"`
	Name         string    `db:"name" json:"name"`
	Make         string    `db:"make" json:"make,omitempty"`
	Model        string    `db:"model" json:"model,omitempty"`
	Color        string    `db:"color" json:"color,omitempty"`
	Year         int       `db:"year" json:"year,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Session represents one parking stay of a vehicle at a lot. Stopped is nil
// while the stay is ongoing; at most one session per (lot, vehicle) may have
// a nil Stopped, enforced by a partial unique index.
type Session struct {
	ID            int64      `db:"id" json:"id"`
	ParkingLotID  int64      `db:"parking_lot_id" json:"parking_lot_id"`
	UserID        int64      `db:"user_id" json:"user_id"`
	VehicleID     int64      `db:"vehicle_id" json:"vehicle_id"`
	LicensePlate  string     `db:"license_plate" json:"license_plate"`
	Started       time.Time  `db:"started" json:"started"`
	Stopped       *time.Time `db:"stopped" json:"stopped"`
	PaymentStatus string     `db:"payment_status" json:"payment_status"`
}

// DurationMinutes returns the elapsed stay in whole minutes, using now while
// the session is still active
func (s *Session) DurationMinutes(now time.Time) int64 {
	end := now
	if s.Stopped != nil {
		end = *s.Stopped
	}
	return int64(end.Sub(s.Started).Minutes())
}

// Payment represents a payment transaction. Amount is positive for charges
// and negative for refunds. Hash is the completion capability issued at
// creation; it is excluded from serialization and must never be logged.
type Payment struct {
	ID            int64      `db:"id" json:"id"`
	TransactionID string     `db:"transaction_id" json:"transaction"`
	Amount        float64    `db:"amount" json:"amount"`
	UserID        int64      `db:"user_id" json:"user_id"`
	SessionID     *int64     `db:"session_id" json:"session_id,omitempty"`
	ParkingLotID  *int64     `db:"parking_lot_id" json:"parking_lot_id,omitempty"`
	ProcessedBy   *int64     `db:"processed_by" json:"processed_by,omitempty"`
	Completed     bool       `db:"completed" json:"completed"`
	CompletedAt   *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	Hash          string     `db:"hash" json:"-"`
	TMethod       *string    `db:"t_method" json:"t_method,omitempty"`
	TIssuer       *string    `db:"t_issuer" json:"t_issuer,omitempty"`
	TBank         *string    `db:"t_bank" json:"t_bank,omitempty"`
	TDate         *string    `db:"t_date" json:"t_date,omitempty"`
	TAmount       *float64   `db:"t_amount" json:"t_amount,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}

// ProviderData is the payment-provider metadata presented at completion. It
// is stored verbatim; a repeated completion overwrites it.
type ProviderData struct {
	Method string  `json:"method"`
	Issuer string  `json:"issuer"`
	Bank   string  `json:"bank"`
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// Reservation books a spot at a lot ahead of time and counts against the
// lot's reserved total while it exists
type Reservation struct {
	ID           int64     `db:"id" json:"id"`
	UserID       int64     `db:"user_id" json:"user_id"`
	ParkingLotID int64     `db:"parking_lot_id" json:"parking_lot_id"`
	LicensePlate string    `db:"license_plate" json:"license_plate"`
	StartTime    time.Time `db:"start_time" json:"start_time"`
	EndTime      time.Time `db:"end_time" json:"end_time"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// User roles
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Session payment statuses
const (
	PaymentStatusUnpaid  = "unpaid"
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// ProcessedEvent for idempotency
type ProcessedEvent struct {
	EventID     string    `db:"event_id"`
	EventType   string    `db:"event_type"`
	ProcessedAt time.Time `db:"processed_at"`
}

// NormalizePlate folds a license plate to its canonical form: upper case with
// spaces and dashes stripped. Vehicle uniqueness and session lookups key on
// this form so "ab-12-cd" and "AB 12 CD" are the same vehicle.
func NormalizePlate(plate string) string {
	plate = strings.ToUpper(plate)
	plate = strings.ReplaceAll(plate, "-", "")
	plate = strings.ReplaceAll(plate, " ", "")
	return plate
}
