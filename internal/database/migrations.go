package database

import (
	"fmt"
	"log/slog"
)

func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createUsersTable,
		createEventsTable,
		createBookingsTable,
		createPaymentsTable,
		createBookingsEventIndex,
		createBookingsUserIndex,
		createEventsDateIndex,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully")
	return nil
}

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
    id SERIAL PRIMARY KEY,
    username VARCHAR(150) UNIQUE NOT NULL,
    email VARCHAR(255) UNIQUE NOT NULL,
    password_hash VARCHAR(100) NOT NULL,
    first_name VARCHAR(150) NOT NULL DEFAULT '',
    last_name VARCHAR(150) NOT NULL DEFAULT '',
    role VARCHAR(20) NOT NULL DEFAULT 'user',
    registered_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (role IN ('user', 'event_manager'))
);`

const createEventsTable = `
CREATE TABLE IF NOT EXISTS events (
    id SERIAL PRIMARY KEY,
    title VARCHAR(255) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    event_date DATE NOT NULL,
    event_time TIME NOT NULL,
    location VARCHAR(255) NOT NULL,
    category VARCHAR(50) NOT NULL,
    payment_options VARCHAR(255) NOT NULL DEFAULT '',
    total_tickets INTEGER NOT NULL,
    available_tickets INTEGER NOT NULL,
    created_by INTEGER NOT NULL REFERENCES users(id),
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (total_tickets > 0),
    CHECK (available_tickets >= 0),
    CHECK (available_tickets <= total_tickets)
);`

const createBookingsTable = `
CREATE TABLE IF NOT EXISTS bookings (
    id SERIAL PRIMARY KEY,
    user_id INTEGER NOT NULL REFERENCES users(id),
    event_id INTEGER NOT NULL REFERENCES events(id),
    number_of_tickets INTEGER NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'booked',
    booking_date TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (number_of_tickets > 0),
    CHECK (status IN ('booked', 'cancelled'))
);`

const createPaymentsTable = `
CREATE TABLE IF NOT EXISTS payments (
    id SERIAL PRIMARY KEY,
    booking_id INTEGER UNIQUE NOT NULL REFERENCES bookings(id),
    payment_method VARCHAR(50) NOT NULL,
    amount DECIMAL(10,2) NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'completed',
    payment_date TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (status IN ('completed', 'reverted'))
);`

const createBookingsEventIndex = `
CREATE INDEX IF NOT EXISTS idx_bookings_event_status ON bookings(event_id, status);`

const createBookingsUserIndex = `
CREATE INDEX IF NOT EXISTS idx_bookings_user ON bookings(user_id);`

const createEventsDateIndex = `
CREATE INDEX IF NOT EXISTS idx_events_date ON events(event_date);`
