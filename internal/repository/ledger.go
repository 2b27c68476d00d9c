package repository

import (
	"context"
	"database/sql"
	"fmt"

	apperrors "bilet/internal/errors"
)

// The inventory ledger. Every mutation of events.available_tickets goes
// through reserveTickets or releaseTickets, inside the caller's transaction.
// Both lock the event row with SELECT ... FOR UPDATE for the duration of the
// check-and-update, so two transactions touching the same event cannot
// interleave their read and write.
//
// Transactions that lock both an event row and booking rows must lock the
// event row first (lockEvent), then the booking rows. Reservation locks the
// event row only. The single global order keeps concurrent cancel, revert
// and event-cancellation transactions deadlock-free.

// lockEvent takes the exclusive lock on the event row without mutating it.
func lockEvent(ctx context.Context, tx *sql.Tx, eventID int64) error {
	var id int64
	err := tx.QueryRowContext(ctx, `SELECT id FROM events WHERE id = $1 FOR UPDATE`, eventID).Scan(&id)
	if err == sql.ErrNoRows {
		return apperrors.ErrNotFound
	}
	return err
}

// reserveTickets decrements available_tickets by n, failing with
// ErrInsufficientInventory when fewer than n tickets remain.
func reserveTickets(ctx context.Context, tx *sql.Tx, eventID int64, n int) error {
	var available int
	err := tx.QueryRowContext(ctx,
		`SELECT available_tickets FROM events WHERE id = $1 FOR UPDATE`, eventID).Scan(&available)
	if err == sql.ErrNoRows {
		return apperrors.ErrNotFound
	}
	if err != nil {
		return err
	}

	if n > available {
		return apperrors.ErrInsufficientInventory
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE events SET available_tickets = available_tickets - $1 WHERE id = $2`, n, eventID)
	return err
}

// releaseTickets increments available_tickets by n. Exceeding total_tickets
// indicates a caller bug (a release without a matching reserve), not a
// normal error, and is reported as such.
func releaseTickets(ctx context.Context, tx *sql.Tx, eventID int64, n int) error {
	var available, total int
	err := tx.QueryRowContext(ctx,
		`SELECT available_tickets, total_tickets FROM events WHERE id = $1 FOR UPDATE`, eventID).
		Scan(&available, &total)
	if err == sql.ErrNoRows {
		return apperrors.ErrNotFound
	}
	if err != nil {
		return err
	}

	if available+n > total {
		return fmt.Errorf("ledger violation: releasing %d tickets would exceed total %d for event %d", n, total, eventID)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE events SET available_tickets = available_tickets + $1 WHERE id = $2`, n, eventID)
	return err
}
