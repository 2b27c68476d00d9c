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

type PaymentService struct {
	payments  PaymentStore
	bookings  BookingStore
	publisher Publisher
}

func NewPaymentService(payments PaymentStore, bookings BookingStore, publisher Publisher) *PaymentService {
	return &PaymentService{
		payments:  payments,
		bookings:  bookings,
		publisher: publisher,
	}
}

// Create records the simulated payment for the actor's booking. No charge
// is attempted. Fails with ErrBookingCancelled on a cancelled booking and
// ErrDuplicatePayment when any payment already exists, whatever its status.
func (s *PaymentService) Create(ctx context.Context, actor models.Identity, req *models.CreatePaymentRequest) (*models.Payment, error) {
	booking, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if !policy.OwnsBooking(actor, booking) {
		return nil, apperrors.ErrNotFound
	}

	payment := &models.Payment{
		BookingID:     req.BookingID,
		PaymentMethod: req.PaymentMethod,
		Amount:        req.Amount,
	}

	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}

	metrics.PaymentsCompleted.Inc()

	s.publish(ctx, models.SubjectPaymentCompleted, models.PaymentCompletedEvent{
		PaymentID: payment.ID,
		BookingID: payment.BookingID,
		Amount:    payment.Amount,
		Timestamp: time.Now(),
	})

	return payment, nil
}

// Revert reverses the booking's payment: payment to reverted, booking to
// cancelled, tickets back to the event, one atomic unit. A payment that was
// already reverted is rejected rather than re-released.
func (s *PaymentService) Revert(ctx context.Context, req *models.RevertPaymentRequest) (*models.Payment, *models.Booking, error) {
	payment, booking, err := s.payments.Revert(ctx, req.BookingID)
	if err != nil {
		return nil, nil, err
	}

	metrics.PaymentsReverted.Inc()
	metrics.BookingsCancelled.Inc()
	metrics.TicketsReleased.Add(float64(booking.NumberOfTickets))

	s.publish(ctx, models.SubjectPaymentReverted, models.PaymentRevertedEvent{
		PaymentID: payment.ID,
		BookingID: payment.BookingID,
		Reason:    req.Reason,
		Timestamp: time.Now(),
	})

	return payment, booking, nil
}

func (s *PaymentService) publish(ctx context.Context, subject string, data interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(subject, data); err != nil {
		logger.WithContext(ctx).Error("Failed to publish domain event",
			"error", err, "subject", subject)
	}
}
