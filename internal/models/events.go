package models

import "time"

// Bus subjects for domain events
const (
	SubjectBookingCreated   = "booking.created"
	SubjectBookingCancelled = "booking.cancelled"
	SubjectPaymentCompleted = "payment.completed"
	SubjectPaymentReverted  = "payment.reverted"
	SubjectEventCancelled   = "event.cancelled"
)

// BookingCreatedEvent is published after a reservation commits
type BookingCreatedEvent struct {
	BookingID       int64     `json:"booking_id"`
	EventID         int64     `json:"event_id"`
	UserID          int64     `json:"user_id"`
	NumberOfTickets int       `json:"number_of_tickets"`
	Timestamp       time.Time `json:"timestamp"`
}

// BookingCancelledEvent is published after a booking cancellation commits
type BookingCancelledEvent struct {
	BookingID int64     `json:"booking_id"`
	EventID   int64     `json:"event_id"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// PaymentCompletedEvent is published after a simulated payment is recorded
type PaymentCompletedEvent struct {
	PaymentID int64     `json:"payment_id"`
	BookingID int64     `json:"booking_id"`
	Amount    float64   `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

// PaymentRevertedEvent is published after a payment reversal commits
type PaymentRevertedEvent struct {
	PaymentID int64     `json:"payment_id"`
	BookingID int64     `json:"booking_id"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// EventCancelledEvent is published after an event is removed
type EventCancelledEvent struct {
	EventID           int64     `json:"event_id"`
	CancelledBookings []int64   `json:"cancelled_bookings"`
	Timestamp         time.Time `json:"timestamp"`
}
