package store

import "context"

// schema is applied at startup. Statements are idempotent so repeated starts
// are safe. The partial unique index on sessions is load-bearing: it rejects
// a second active session for the same (lot, vehicle) pair at the constraint
// level, closing the race two concurrent starts would otherwise win together.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL UNIQUE,
		phone TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT 'USER',
		birth_year INT NOT NULL DEFAULT 0,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS parking_lots (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		location TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		capacity INT NOT NULL DEFAULT 0,
		reserved INT NOT NULL DEFAULT 0,
		tariff DOUBLE PRECISION NOT NULL DEFAULT 0,
		daytariff DOUBLE PRECISION NOT NULL DEFAULT 0,
		lat DOUBLE PRECISION NOT NULL DEFAULT 0,
		lng DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS vehicles (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id),
		license_plate TEXT NOT NULL,
		display_plate TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL DEFAULT '',
		make TEXT NOT NULL DEFAULT '',
		model TEXT NOT NULL DEFAULT '',
		color TEXT NOT NULL DEFAULT '',
		year INT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (user_id, license_plate)
	)`,

	`CREATE TABLE IF NOT EXISTS sessions (
		id BIGSERIAL PRIMARY KEY,
		parking_lot_id BIGINT NOT NULL REFERENCES parking_lots(id),
		user_id BIGINT NOT NULL REFERENCES users(id),
		vehicle_id BIGINT NOT NULL REFERENCES vehicles(id),
		license_plate TEXT NOT NULL,
		started TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		stopped TIMESTAMPTZ,
		payment_status TEXT NOT NULL DEFAULT 'unpaid'
			CHECK (payment_status IN ('unpaid', 'pending', 'paid', 'failed'))
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS sessions_one_active
		ON sessions (parking_lot_id, vehicle_id) WHERE stopped IS NULL`,

	`CREATE TABLE IF NOT EXISTS payments (
		id BIGSERIAL PRIMARY KEY,
		transaction_id TEXT NOT NULL UNIQUE,
		amount DOUBLE PRECISION NOT NULL,
		user_id BIGINT NOT NULL REFERENCES users(id),
		session_id BIGINT REFERENCES sessions(id),
		parking_lot_id BIGINT REFERENCES parking_lots(id),
		processed_by BIGINT REFERENCES users(id),
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		completed_at TIMESTAMPTZ,
		hash TEXT NOT NULL,
		t_method TEXT,
		t_issuer TEXT,
		t_bank TEXT,
		t_date TEXT,
		t_amount DOUBLE PRECISION,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS reservations (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id),
		parking_lot_id BIGINT NOT NULL REFERENCES parking_lots(id),
		license_plate TEXT NOT NULL,
		start_time TIMESTAMPTZ NOT NULL,
		end_time TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS processed_events (
		event_id TEXT PRIMARY KEY,
		event_type TEXT NOT NULL DEFAULT '',
		processed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// EnsureSchema creates all tables and indexes if they do not exist yet
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
