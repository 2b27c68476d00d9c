package service

import (
	"context"

	"bilet/internal/models"
)

// Store interfaces are the transactional boundary the services rely on.
// Each compound operation (reserve-and-create, cascade cancel, revert) is
// atomic inside its implementation: either every mutation it names commits
// or none do.

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

type EventStore interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	List(ctx context.Context, filter models.EventFilter) ([]models.Event, error)
	Delete(ctx context.Context, id int64) error
}

type BookingStore interface {
	CreateWithReservation(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id int64) (*models.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]models.BookingDetail, error)
	ListActiveByEvent(ctx context.Context, eventID int64) ([]models.Booking, error)
	Cancel(ctx context.Context, bookingID int64) (*models.Booking, error)
}

type PaymentStore interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByBookingID(ctx context.Context, bookingID int64) (*models.Payment, error)
	Revert(ctx context.Context, bookingID int64) (*models.Payment, *models.Booking, error)
}

// Publisher emits domain events to the message bus. Publish failures are
// logged by callers and never fail the triggering operation.
type Publisher interface {
	Publish(subject string, data interface{}) error
}

// Notifier delivers a message to a recipient, best-effort.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// EventIndex is the optional search index over events.
type EventIndex interface {
	Index(ctx context.Context, event *models.Event) error
	Remove(ctx context.Context, id int64) error
	Search(ctx context.Context, text string) ([]int64, error)
}

type Stores struct {
	Users    UserStore
	Events   EventStore
	Bookings BookingStore
	Payments PaymentStore
}

type Services struct {
	Users    *UserService
	Events   *EventService
	Bookings *BookingService
	Payments *PaymentService
}

// NewServices wires the service layer. Publisher, notifier and index may be
// nil; the services degrade to skipping the side effect.
func NewServices(stores Stores, publisher Publisher, notifier Notifier, index EventIndex) *Services {
	return &Services{
		Users:    NewUserService(stores.Users),
		Events:   NewEventService(stores.Events, stores.Bookings, stores.Users, index, publisher, notifier),
		Bookings: NewBookingService(stores.Bookings, stores.Events, stores.Users, publisher, notifier),
		Payments: NewPaymentService(stores.Payments, stores.Bookings, publisher),
	}
}
