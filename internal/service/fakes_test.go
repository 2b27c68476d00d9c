package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	apperrors "bilet/internal/errors"
	"bilet/internal/models"
)

// fakeStore is an in-memory implementation of the store interfaces. Its
// compound operations follow the same contracts as the SQL repositories:
// atomic under one mutex, same sentinel errors, same state transitions.
type fakeStore struct {
	mu       sync.Mutex
	users    map[int64]*models.User
	events   map[int64]*models.Event
	bookings map[int64]*models.Booking
	payments map[int64]*models.Payment

	nextUserID    int64
	nextEventID   int64
	nextBookingID int64
	nextPaymentID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[int64]*models.User),
		events:   make(map[int64]*models.Event),
		bookings: make(map[int64]*models.Booking),
		payments: make(map[int64]*models.Payment),
	}
}

// UserStore

func (f *fakeStore) Create(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return apperrors.ErrUserExists
		}
	}

	f.nextUserID++
	user.ID = f.nextUserID
	user.RegisteredAt = time.Now()
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

// EventStore — method names clash with UserStore, so the event side lives on
// a view type over the same state.

type fakeEventStore struct{ *fakeStore }

func (f fakeEventStore) Create(ctx context.Context, event *models.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextEventID++
	event.ID = f.nextEventID
	event.AvailableTickets = event.TotalTickets
	event.CreatedAt = time.Now()
	copied := *event
	f.events[event.ID] = &copied
	return nil
}

func (f fakeEventStore) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	event, ok := f.events[id]
	if !ok {
		return nil, nil
	}
	copied := *event
	return &copied, nil
}

func (f fakeEventStore) List(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	result := make([]models.Event, 0, len(f.events))
	for _, event := range f.events {
		if filter.Location != "" && event.Location != filter.Location {
			continue
		}
		if filter.Date != "" && event.Date != filter.Date {
			continue
		}
		if filter.Category != "" && event.Category != filter.Category {
			continue
		}
		result = append(result, *event)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f fakeEventStore) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.events[id]; !ok {
		return apperrors.ErrNotFound
	}

	for bookingID, booking := range f.bookings {
		if booking.EventID != id {
			continue
		}
		for paymentID, payment := range f.payments {
			if payment.BookingID == bookingID {
				delete(f.payments, paymentID)
			}
		}
		delete(f.bookings, bookingID)
	}
	delete(f.events, id)
	return nil
}

// BookingStore

type fakeBookingStore struct{ *fakeStore }

func (f fakeBookingStore) CreateWithReservation(ctx context.Context, booking *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	event, ok := f.events[booking.EventID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if event.AvailableTickets < booking.NumberOfTickets {
		return apperrors.ErrInsufficientInventory
	}
	event.AvailableTickets -= booking.NumberOfTickets

	f.nextBookingID++
	booking.ID = f.nextBookingID
	booking.Status = models.BookingStatusBooked
	booking.BookingDate = time.Now()
	copied := *booking
	f.bookings[booking.ID] = &copied
	return nil
}

func (f fakeBookingStore) GetByID(ctx context.Context, id int64) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	booking, ok := f.bookings[id]
	if !ok {
		return nil, nil
	}
	copied := *booking
	return &copied, nil
}

func (f fakeBookingStore) ListByUser(ctx context.Context, userID int64) ([]models.BookingDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	result := []models.BookingDetail{}
	for _, booking := range f.bookings {
		if booking.UserID != userID {
			continue
		}
		detail := models.BookingDetail{Booking: *booking}
		if event, ok := f.events[booking.EventID]; ok {
			detail.Event = *event
		}
		result = append(result, detail)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f fakeBookingStore) ListActiveByEvent(ctx context.Context, eventID int64) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	result := []models.Booking{}
	for _, booking := range f.bookings {
		if booking.EventID == eventID && booking.Status == models.BookingStatusBooked {
			result = append(result, *booking)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f fakeBookingStore) Cancel(ctx context.Context, bookingID int64) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.cancelLocked(bookingID)
}

func (f *fakeStore) cancelLocked(bookingID int64) (*models.Booking, error) {
	booking, ok := f.bookings[bookingID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if booking.Status == models.BookingStatusCancelled {
		return nil, apperrors.ErrAlreadyCancelled
	}

	event, ok := f.events[booking.EventID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}

	booking.Status = models.BookingStatusCancelled

	for _, payment := range f.payments {
		if payment.BookingID == bookingID && payment.Status == models.PaymentStatusCompleted {
			payment.Status = models.PaymentStatusReverted
		}
	}

	if err := f.releaseLocked(event, booking.NumberOfTickets); err != nil {
		return nil, err
	}

	copied := *booking
	return &copied, nil
}

func (f *fakeStore) releaseLocked(event *models.Event, n int) error {
	if event.AvailableTickets+n > event.TotalTickets {
		return fmt.Errorf("ledger violation: releasing %d tickets exceeds total for event %d", n, event.ID)
	}
	event.AvailableTickets += n
	return nil
}

// PaymentStore

type fakePaymentStore struct{ *fakeStore }

func (f fakePaymentStore) Create(ctx context.Context, payment *models.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	booking, ok := f.bookings[payment.BookingID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if booking.Status == models.BookingStatusCancelled {
		return apperrors.ErrBookingCancelled
	}
	for _, existing := range f.payments {
		if existing.BookingID == payment.BookingID {
			return apperrors.ErrDuplicatePayment
		}
	}

	f.nextPaymentID++
	payment.ID = f.nextPaymentID
	payment.Status = models.PaymentStatusCompleted
	payment.PaymentDate = time.Now()
	copied := *payment
	f.payments[payment.ID] = &copied
	return nil
}

func (f fakePaymentStore) GetByBookingID(ctx context.Context, bookingID int64) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, payment := range f.payments {
		if payment.BookingID == bookingID {
			copied := *payment
			return &copied, nil
		}
	}
	return nil, nil
}

func (f fakePaymentStore) Revert(ctx context.Context, bookingID int64) (*models.Payment, *models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	booking, ok := f.bookings[bookingID]
	if !ok {
		return nil, nil, apperrors.ErrNotFound
	}

	var payment *models.Payment
	for _, p := range f.payments {
		if p.BookingID == bookingID {
			payment = p
			break
		}
	}
	if payment == nil {
		return nil, nil, apperrors.ErrPaymentNotFound
	}
	if payment.Status == models.PaymentStatusReverted {
		return nil, nil, apperrors.ErrAlreadyReverted
	}

	payment.Status = models.PaymentStatusReverted

	if booking.Status == models.BookingStatusBooked {
		event, ok := f.events[booking.EventID]
		if !ok {
			return nil, nil, apperrors.ErrNotFound
		}
		booking.Status = models.BookingStatusCancelled
		if err := f.releaseLocked(event, booking.NumberOfTickets); err != nil {
			return nil, nil, err
		}
	}

	paymentCopy := *payment
	bookingCopy := *booking
	return &paymentCopy, &bookingCopy, nil
}

func (f *fakeStore) stores() Stores {
	return Stores{
		Users:    f,
		Events:   fakeEventStore{f},
		Bookings: fakeBookingStore{f},
		Payments: fakePaymentStore{f},
	}
}

// availableTickets reads current inventory for assertions.
func (f *fakeStore) availableTickets(eventID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if event, ok := f.events[eventID]; ok {
		return event.AvailableTickets
	}
	return -1
}

// flakyBookingStore fails Cancel for selected bookings, for exercising the
// partial-failure path of event cancellation.
type flakyBookingStore struct {
	fakeBookingStore
	failIDs map[int64]bool
}

func (f flakyBookingStore) Cancel(ctx context.Context, bookingID int64) (*models.Booking, error) {
	if f.failIDs[bookingID] {
		return nil, errors.New("storage unavailable")
	}
	return f.fakeBookingStore.Cancel(ctx, bookingID)
}

// capturingPublisher records published domain events.
type capturingPublisher struct {
	mu        sync.Mutex
	published []string
}

func (p *capturingPublisher) Publish(subject string, data interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, subject)
	return nil
}

func (p *capturingPublisher) subjects() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string{}, p.published...)
}

// capturingNotifier records sent notifications.
type capturingNotifier struct {
	mu   sync.Mutex
	sent []string
}

func (n *capturingNotifier) Send(ctx context.Context, to, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, to+": "+subject)
	return nil
}

func (n *capturingNotifier) messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string{}, n.sent...)
}
