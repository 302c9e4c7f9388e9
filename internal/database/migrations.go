package database

import (
	"fmt"
	"log/slog"
)

func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createSeatsTable,
		createBookingsTable,
		createBookingsDateIndex,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully")
	return nil
}

const createSeatsTable = `
CREATE TABLE IF NOT EXISTS seats (
    id SERIAL PRIMARY KEY,
    row_number INTEGER NOT NULL,
    col_number INTEGER NOT NULL,
    label VARCHAR(10) NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    UNIQUE(row_number, col_number),
    CHECK (row_number >= 1 AND col_number >= 1)
);`

// The UNIQUE(seat_id, booked_date) index is the actual enforcer of the
// one-booking-per-seat-per-day invariant; service-level pre-checks only exist
// to produce friendly error messages.
const createBookingsTable = `
CREATE TABLE IF NOT EXISTS bookings (
    id SERIAL PRIMARY KEY,
    seat_id INTEGER NOT NULL REFERENCES seats(id) ON DELETE CASCADE,
    user_name VARCHAR(255) NOT NULL,
    booked_date TIMESTAMPTZ NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    UNIQUE(seat_id, booked_date)
);`

const createBookingsDateIndex = `
CREATE INDEX IF NOT EXISTS bookings_booked_date_idx
ON bookings (booked_date);`
