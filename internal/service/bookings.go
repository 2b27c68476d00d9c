package service

import (
	"context"
	"fmt"
	"time"

	apperrors "bilet/internal/errors"
	"bilet/internal/logger"
	"bilet/internal/metrics"
	"bilet/internal/models"
	"bilet/internal/policy"
)

type BookingService struct {
	bookings  BookingStore
	events    EventStore
	users     UserStore
	publisher Publisher
	notifier  Notifier
}

func NewBookingService(bookings BookingStore, events EventStore, users UserStore, publisher Publisher, notifier Notifier) *BookingService {
	return &BookingService{
		bookings:  bookings,
		events:    events,
		users:     users,
		publisher: publisher,
		notifier:  notifier,
	}
}

// Create reserves tickets and creates the booking as one atomic unit. When
// the event lacks inventory nothing is created and the event is untouched.
func (s *BookingService) Create(ctx context.Context, actor models.Identity, req *models.CreateBookingRequest) (*models.Booking, error) {
	booking := &models.Booking{
		UserID:          actor.UserID,
		EventID:         req.EventID,
		NumberOfTickets: req.NumberOfTickets,
	}

	if err := s.bookings.CreateWithReservation(ctx, booking); err != nil {
		return nil, err
	}

	metrics.BookingsCreated.Inc()
	metrics.TicketsReserved.Add(float64(booking.NumberOfTickets))

	s.publish(ctx, models.SubjectBookingCreated, models.BookingCreatedEvent{
		BookingID:       booking.ID,
		EventID:         booking.EventID,
		UserID:          booking.UserID,
		NumberOfTickets: booking.NumberOfTickets,
		Timestamp:       time.Now(),
	})

	s.sendConfirmation(ctx, booking)

	return booking, nil
}

func (s *BookingService) List(ctx context.Context, actor models.Identity) ([]models.BookingDetail, error) {
	bookings, err := s.bookings.ListByUser(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings: %w", err)
	}
	return bookings, nil
}

// Cancel transitions the actor's booking to cancelled, releasing its
// tickets and reverting a completed payment in the same transaction. A
// booking that is missing or not owned by the actor reports ErrNotFound; a
// second cancel reports ErrAlreadyCancelled.
func (s *BookingService) Cancel(ctx context.Context, actor models.Identity, bookingID int64) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if !policy.OwnsBooking(actor, booking) {
		return nil, apperrors.ErrNotFound
	}

	cancelled, err := s.bookings.Cancel(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	metrics.BookingsCancelled.Inc()
	metrics.TicketsReleased.Add(float64(cancelled.NumberOfTickets))

	s.publish(ctx, models.SubjectBookingCancelled, models.BookingCancelledEvent{
		BookingID: cancelled.ID,
		EventID:   cancelled.EventID,
		Reason:    "user cancellation",
		Timestamp: time.Now(),
	})

	return cancelled, nil
}

func (s *BookingService) publish(ctx context.Context, subject string, data interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(subject, data); err != nil {
		logger.WithContext(ctx).Error("Failed to publish domain event",
			"error", err, "subject", subject)
	}
}

func (s *BookingService) sendConfirmation(ctx context.Context, booking *models.Booking) {
	if s.notifier == nil {
		return
	}

	user, err := s.users.GetByID(ctx, booking.UserID)
	if err != nil || user == nil {
		return
	}
	event, err := s.events.GetByID(ctx, booking.EventID)
	if err != nil || event == nil {
		return
	}

	body := fmt.Sprintf("Hi %s, your booking of %d ticket(s) for %s on %s is confirmed.",
		user.Username, booking.NumberOfTickets, event.Title, event.Date)

	if err := s.notifier.Send(ctx, user.Email, "Booking Confirmed", body); err != nil {
		logger.WithContext(ctx).Warn("Failed to send booking confirmation",
			"error", err, "booking_id", booking.ID)
	}
}
