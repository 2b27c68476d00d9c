package repository

import (
	"context"
	"database/sql"

	"bilet/internal/database"
	apperrors "bilet/internal/errors"
	"bilet/internal/models"
)

type PaymentRepository struct {
	db *database.DB
}

func NewPaymentRepository(db *database.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create records the simulated payment. The booking row is locked for the
// status and uniqueness checks, so a concurrent cancel or duplicate pay
// cannot slip between check and insert.
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithinTx(ctx, func(tx *sql.Tx) error {
		var status string
		err := tx.QueryRowContext(ctx,
			`SELECT status FROM bookings WHERE id = $1 FOR UPDATE`, payment.BookingID).Scan(&status)
		if err == sql.ErrNoRows {
			return apperrors.ErrNotFound
		}
		if err != nil {
			return err
		}
		if status == models.BookingStatusCancelled {
			return apperrors.ErrBookingCancelled
		}

		var exists bool
		err = tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM payments WHERE booking_id = $1)`, payment.BookingID).Scan(&exists)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.ErrDuplicatePayment
		}

		query := `
			INSERT INTO payments (booking_id, payment_method, amount, status)
			VALUES ($1, $2, $3, 'completed')
			RETURNING id, status, payment_date`

		return tx.QueryRowContext(ctx, query,
			payment.BookingID,
			payment.PaymentMethod,
			payment.Amount,
		).Scan(&payment.ID, &payment.Status, &payment.PaymentDate)
	})
}

func (r *PaymentRepository) GetByBookingID(ctx context.Context, bookingID int64) (*models.Payment, error) {
	payment := &models.Payment{}
	query := `
		SELECT id, booking_id, payment_method, amount, status, payment_date
		FROM payments
		WHERE booking_id = $1`

	err := r.db.QueryRowContext(ctx, query, bookingID).Scan(
		&payment.ID,
		&payment.BookingID,
		&payment.PaymentMethod,
		&payment.Amount,
		&payment.Status,
		&payment.PaymentDate,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return payment, err
}

// Revert sets the payment to reverted, cancels its booking and releases the
// booking's tickets, atomically. A payment that is already reverted fails
// with ErrAlreadyReverted, so inventory can never be released twice through
// this path.
func (r *PaymentRepository) Revert(ctx context.Context, bookingID int64) (*models.Payment, *models.Booking, error) {
	payment := &models.Payment{}
	booking := &models.Booking{}

	err := r.db.WithinTx(ctx, func(tx *sql.Tx) error {
		var eventID int64
		var tickets int
		err := tx.QueryRowContext(ctx,
			`SELECT event_id, number_of_tickets FROM bookings WHERE id = $1`, bookingID).
			Scan(&eventID, &tickets)
		if err == sql.ErrNoRows {
			return apperrors.ErrNotFound
		}
		if err != nil {
			return err
		}

		if err := lockEvent(ctx, tx, eventID); err != nil {
			return err
		}

		var bookingStatus string
		err = tx.QueryRowContext(ctx,
			`SELECT status FROM bookings WHERE id = $1 FOR UPDATE`, bookingID).Scan(&bookingStatus)
		if err != nil {
			return err
		}

		var paymentStatus string
		err = tx.QueryRowContext(ctx,
			`SELECT status FROM payments WHERE booking_id = $1 FOR UPDATE`, bookingID).Scan(&paymentStatus)
		if err == sql.ErrNoRows {
			return apperrors.ErrPaymentNotFound
		}
		if err != nil {
			return err
		}
		if paymentStatus == models.PaymentStatusReverted {
			return apperrors.ErrAlreadyReverted
		}

		err = tx.QueryRowContext(ctx,
			`UPDATE payments SET status = 'reverted' WHERE booking_id = $1
			 RETURNING id, booking_id, payment_method, amount, status, payment_date`, bookingID).
			Scan(&payment.ID, &payment.BookingID, &payment.PaymentMethod,
				&payment.Amount, &payment.Status, &payment.PaymentDate)
		if err != nil {
			return err
		}

		// Inventory is released only when the booking actually
		// transitions here; a cancelled booking already gave its
		// tickets back.
		if bookingStatus == models.BookingStatusBooked {
			_, err = tx.ExecContext(ctx,
				`UPDATE bookings SET status = 'cancelled' WHERE id = $1`, bookingID)
			if err != nil {
				return err
			}
			if err := releaseTickets(ctx, tx, eventID, tickets); err != nil {
				return err
			}
		}

		return tx.QueryRowContext(ctx,
			`SELECT id, user_id, event_id, number_of_tickets, status, booking_date
			 FROM bookings WHERE id = $1`, bookingID).
			Scan(&booking.ID, &booking.UserID, &booking.EventID,
				&booking.NumberOfTickets, &booking.Status, &booking.BookingDate)
	})
	if err != nil {
		return nil, nil, err
	}

	return payment, booking, nil
}
