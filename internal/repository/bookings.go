package repository

import (
	"context"
	"database/sql"
	"time"

	"bilet/internal/database"
	apperrors "bilet/internal/errors"
	"bilet/internal/models"
)

type BookingRepository struct {
	db *database.DB
}

func NewBookingRepository(db *database.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// CreateWithReservation reserves booking.NumberOfTickets against the event
// and inserts the booking in one transaction. On ErrInsufficientInventory
// nothing is created and the event is left untouched.
func (r *BookingRepository) CreateWithReservation(ctx context.Context, booking *models.Booking) error {
	return r.db.WithinTx(ctx, func(tx *sql.Tx) error {
		if err := reserveTickets(ctx, tx, booking.EventID, booking.NumberOfTickets); err != nil {
			return err
		}

		query := `
			INSERT INTO bookings (user_id, event_id, number_of_tickets, status)
			VALUES ($1, $2, $3, 'booked')
			RETURNING id, status, booking_date`

		return tx.QueryRowContext(ctx, query,
			booking.UserID,
			booking.EventID,
			booking.NumberOfTickets,
		).Scan(&booking.ID, &booking.Status, &booking.BookingDate)
	})
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*models.Booking, error) {
	booking := &models.Booking{}
	query := `
		SELECT id, user_id, event_id, number_of_tickets, status, booking_date
		FROM bookings
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&booking.ID,
		&booking.UserID,
		&booking.EventID,
		&booking.NumberOfTickets,
		&booking.Status,
		&booking.BookingDate,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return booking, err
}

// ListByUser returns the user's bookings, newest first, each joined with
// its event.
func (r *BookingRepository) ListByUser(ctx context.Context, userID int64) ([]models.BookingDetail, error) {
	query := `
		SELECT b.id, b.user_id, b.event_id, b.number_of_tickets, b.status, b.booking_date,
		       e.id, e.title, e.description, e.event_date, e.event_time, e.location, e.category,
		       e.payment_options, e.total_tickets, e.available_tickets, e.created_by, e.created_at
		FROM bookings b
		JOIN events e ON e.id = b.event_id
		WHERE b.user_id = $1
		ORDER BY b.booking_date DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.BookingDetail
	for rows.Next() {
		var detail models.BookingDetail
		var date time.Time
		err := rows.Scan(
			&detail.ID,
			&detail.UserID,
			&detail.EventID,
			&detail.NumberOfTickets,
			&detail.Status,
			&detail.BookingDate,
			&detail.Event.ID,
			&detail.Event.Title,
			&detail.Event.Description,
			&date,
			&detail.Event.Time,
			&detail.Event.Location,
			&detail.Event.Category,
			&detail.Event.PaymentOptions,
			&detail.Event.TotalTickets,
			&detail.Event.AvailableTickets,
			&detail.Event.CreatedBy,
			&detail.Event.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		detail.Event.Date = date.Format("2006-01-02")
		bookings = append(bookings, detail)
	}

	return bookings, rows.Err()
}

// ListActiveByEvent returns the bookings still in the booked state for one
// event, in id order.
func (r *BookingRepository) ListActiveByEvent(ctx context.Context, eventID int64) ([]models.Booking, error) {
	query := `
		SELECT id, user_id, event_id, number_of_tickets, status, booking_date
		FROM bookings
		WHERE event_id = $1 AND status = 'booked'
		ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var booking models.Booking
		err := rows.Scan(
			&booking.ID,
			&booking.UserID,
			&booking.EventID,
			&booking.NumberOfTickets,
			&booking.Status,
			&booking.BookingDate,
		)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

// Cancel transitions the booking to cancelled, releases its tickets back to
// the event and reverts a completed payment if one exists. All three
// mutations commit as one unit. A second cancel fails with
// ErrAlreadyCancelled and releases nothing.
func (r *BookingRepository) Cancel(ctx context.Context, bookingID int64) (*models.Booking, error) {
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

		// Event row first, booking row second. See ledger.go.
		if err := lockEvent(ctx, tx, eventID); err != nil {
			return err
		}

		var status string
		err = tx.QueryRowContext(ctx,
			`SELECT status FROM bookings WHERE id = $1 FOR UPDATE`, bookingID).Scan(&status)
		if err != nil {
			return err
		}
		if status == models.BookingStatusCancelled {
			return apperrors.ErrAlreadyCancelled
		}

		err = tx.QueryRowContext(ctx,
			`UPDATE bookings SET status = 'cancelled' WHERE id = $1
			 RETURNING id, user_id, event_id, number_of_tickets, status, booking_date`, bookingID).
			Scan(&booking.ID, &booking.UserID, &booking.EventID,
				&booking.NumberOfTickets, &booking.Status, &booking.BookingDate)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE payments SET status = 'reverted' WHERE booking_id = $1 AND status = 'completed'`, bookingID)
		if err != nil {
			return err
		}

		return releaseTickets(ctx, tx, eventID, tickets)
	})
	if err != nil {
		return nil, err
	}

	return booking, nil
}
