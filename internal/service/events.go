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

type EventService struct {
	events    EventStore
	bookings  BookingStore
	users     UserStore
	index     EventIndex
	publisher Publisher
	notifier  Notifier
}

func NewEventService(events EventStore, bookings BookingStore, users UserStore, index EventIndex, publisher Publisher, notifier Notifier) *EventService {
	return &EventService{
		events:    events,
		bookings:  bookings,
		users:     users,
		index:     index,
		publisher: publisher,
		notifier:  notifier,
	}
}

// Create publishes a new event with its full inventory available. Only
// event managers may create events.
func (s *EventService) Create(ctx context.Context, actor models.Identity, req *models.CreateEventRequest) (*models.Event, error) {
	if !policy.CanManageEvents(actor) {
		return nil, apperrors.ErrForbidden
	}

	event := &models.Event{
		Title:          req.Title,
		Description:    req.Description,
		Date:           req.Date,
		Time:           req.Time,
		Location:       req.Location,
		Category:       req.Category,
		PaymentOptions: req.PaymentOptions,
		TotalTickets:   req.TotalTickets,
		CreatedBy:      actor.UserID,
	}

	if err := s.events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	if s.index != nil {
		if err := s.index.Index(ctx, event); err != nil {
			logger.WithContext(ctx).Warn("Failed to index event",
				"error", err, "event_id", event.ID)
		}
	}

	return event, nil
}

// List returns events in id order, applying the optional filters. A search
// term goes through the search index when one is configured, falling back
// to the relational store on index errors.
func (s *EventService) List(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	if filter.Search != "" && s.index != nil {
		events, err := s.listViaIndex(ctx, filter)
		if err == nil {
			return events, nil
		}
		logger.WithContext(ctx).Warn("Search index unavailable, falling back to SQL",
			"error", err)
	}

	return s.events.List(ctx, filter)
}

func (s *EventService) listViaIndex(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	ids, err := s.index.Search(ctx, filter.Search)
	if err != nil {
		return nil, err
	}

	matched := make(map[int64]bool, len(ids))
	for _, id := range ids {
		matched[id] = true
	}

	sqlFilter := filter
	sqlFilter.Search = ""
	events, err := s.events.List(ctx, sqlFilter)
	if err != nil {
		return nil, err
	}

	result := make([]models.Event, 0, len(ids))
	for _, event := range events {
		if matched[event.ID] {
			result = append(result, event)
		}
	}

	return result, nil
}

func (s *EventService) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	return s.events.GetByID(ctx, id)
}

// Cancel retires an event: every active booking is cancelled (payment
// reverted, tickets released) and the event record is removed together with
// its dependent rows. The per-booking cascade is best-effort: a failing
// booking is reported and skipped, the rest proceed, and the event is
// deleted only once every cascade has succeeded, so a partial failure
// leaves the event visible and the operation retryable.
func (s *EventService) Cancel(ctx context.Context, actor models.Identity, eventID int64) (*models.CancelEventResult, error) {
	if !policy.CanManageEvents(actor) {
		return nil, apperrors.ErrForbidden
	}

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if !policy.OwnsEvent(actor, event) {
		return nil, apperrors.ErrNotFound
	}

	active, err := s.bookings.ListActiveByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	result := &models.CancelEventResult{EventID: eventID}

	for _, booking := range active {
		cancelled, err := s.bookings.Cancel(ctx, booking.ID)
		if err != nil {
			logger.WithContext(ctx).Error("Failed to cancel booking during event cancellation",
				"error", err, "booking_id", booking.ID, "event_id", eventID)
			result.FailedBookings = append(result.FailedBookings, booking.ID)
			continue
		}

		result.CancelledBookings = append(result.CancelledBookings, cancelled.ID)
		metrics.BookingsCancelled.Inc()
		metrics.TicketsReleased.Add(float64(cancelled.NumberOfTickets))

		s.notifyCancellation(ctx, event, cancelled)
	}

	if len(result.FailedBookings) > 0 {
		return result, fmt.Errorf("event %d not removed: %d of %d booking cancellations failed",
			eventID, len(result.FailedBookings), len(active))
	}

	if err := s.events.Delete(ctx, eventID); err != nil {
		return result, fmt.Errorf("failed to delete event: %w", err)
	}

	metrics.EventsCancelled.Inc()

	if s.index != nil {
		if err := s.index.Remove(ctx, eventID); err != nil {
			logger.WithContext(ctx).Warn("Failed to remove event from index",
				"error", err, "event_id", eventID)
		}
	}

	s.publish(ctx, models.SubjectEventCancelled, models.EventCancelledEvent{
		EventID:           eventID,
		CancelledBookings: result.CancelledBookings,
		Timestamp:         time.Now(),
	})

	return result, nil
}

func (s *EventService) notifyCancellation(ctx context.Context, event *models.Event, booking *models.Booking) {
	if s.notifier == nil {
		return
	}

	user, err := s.users.GetByID(ctx, booking.UserID)
	if err != nil || user == nil {
		return
	}

	body := fmt.Sprintf("Hi %s, the event %s has been cancelled. Your booking of %d ticket(s) was cancelled and any payment reverted.",
		user.Username, event.Title, booking.NumberOfTickets)

	if err := s.notifier.Send(ctx, user.Email, "Event Cancelled", body); err != nil {
		logger.WithContext(ctx).Warn("Failed to send cancellation notice",
			"error", err, "booking_id", booking.ID)
	}
}

func (s *EventService) publish(ctx context.Context, subject string, data interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(subject, data); err != nil {
		logger.WithContext(ctx).Error("Failed to publish domain event",
			"error", err, "subject", subject)
	}
}
