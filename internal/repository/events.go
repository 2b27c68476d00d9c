package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"bilet/internal/database"
	"bilet/internal/models"
)

type EventRepository struct {
	db *database.DB
}

func NewEventRepository(db *database.DB) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `id, title, description, event_date, event_time, location, category,
	       payment_options, total_tickets, available_tickets, created_by, created_at`

func scanEvent(row interface {
	Scan(dest ...interface{}) error
}, event *models.Event) error {
	var date time.Time
	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&date,
		&event.Time,
		&event.Location,
		&event.Category,
		&event.PaymentOptions,
		&event.TotalTickets,
		&event.AvailableTickets,
		&event.CreatedBy,
		&event.CreatedAt,
	)
	if err != nil {
		return err
	}
	event.Date = date.Format("2006-01-02")
	return nil
}

// Create inserts the event with available_tickets equal to total_tickets.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	query := `
		INSERT INTO events (title, description, event_date, event_time, location, category,
		                    payment_options, total_tickets, available_tickets, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8, $9)
		RETURNING id, available_tickets, created_at`

	return r.db.QueryRowContext(ctx, query,
		event.Title,
		event.Description,
		event.Date,
		event.Time,
		event.Location,
		event.Category,
		event.PaymentOptions,
		event.TotalTickets,
		event.CreatedBy,
	).Scan(&event.ID, &event.AvailableTickets, &event.CreatedAt)
}

func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	event := &models.Event{}
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	err := scanEvent(r.db.QueryRowContext(ctx, query, id), event)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return event, nil
}

// List returns events in id order, applying the optional filters. The search
// term matches title and description; full-text ranking is out of scope.
func (r *EventRepository) List(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	var args []interface{}
	argIndex := 1

	query := `SELECT ` + eventColumns + ` FROM events WHERE 1=1`

	if filter.Location != "" {
		query += fmt.Sprintf(" AND location = $%d", argIndex)
		args = append(args, filter.Location)
		argIndex++
	}

	if filter.Date != "" {
		query += fmt.Sprintf(" AND event_date = $%d", argIndex)
		args = append(args, filter.Date)
		argIndex++
	}

	if filter.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", argIndex)
		args = append(args, filter.Category)
		argIndex++
	}

	if filter.Search != "" {
		query += fmt.Sprintf(" AND (title ILIKE '%%' || $%d || '%%' OR description ILIKE '%%' || $%d || '%%')",
			argIndex, argIndex)
		args = append(args, filter.Search)
		argIndex++
	}

	query += " ORDER BY id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var event models.Event
		if err := scanEvent(rows, &event); err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

// Delete removes the event together with its dependent bookings and
// payments. The cascade is an explicit step here, not referential-action
// magic: payments first, then bookings, then the event row, in one
// transaction.
func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithinTx(ctx, func(tx *sql.Tx) error {
		if err := lockEvent(ctx, tx, id); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx,
			`DELETE FROM payments WHERE booking_id IN (SELECT id FROM bookings WHERE event_id = $1)`, id)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `DELETE FROM bookings WHERE event_id = $1`, id)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
		return err
	})
}
