package models

// RegisterRequest - payload for account registration
type RegisterRequest struct {
	Username  string `json:"username" binding:"required,max=150"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      Role   `json:"role" binding:"omitempty,oneof=user event_manager"`
}

// LoginRequest - payload for credential verification
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenPairResponse - issued access/refresh token pair
type TokenPairResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// RefreshRequest - payload for access token renewal
type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// LogoutRequest - refresh token to blacklist
type LogoutRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// CreateEventRequest - payload for event creation. Validation of field shape
// is the transport's job; the core receives already-validated values.
type CreateEventRequest struct {
	Title          string `json:"title" binding:"required,max=255"`
	Description    string `json:"description"`
	Date           string `json:"date" binding:"required,datetime=2006-01-02"`
	Time           string `json:"time" binding:"required,datetime=15:04"`
	Location       string `json:"location" binding:"required,max=255"`
	Category       string `json:"category" binding:"required,oneof=music sports theatre"`
	PaymentOptions string `json:"payment_options"`
	TotalTickets   int    `json:"total_tickets" binding:"required,gt=0"`
}

// EventFilter - filters accepted by the event listing
type EventFilter struct {
	Location string
	Date     string
	Category string
	Search   string
}

// CreateBookingRequest - payload for booking tickets
type CreateBookingRequest struct {
	EventID         int64 `json:"event_id" binding:"required"`
	NumberOfTickets int   `json:"number_of_tickets" binding:"required,gt=0"`
}

// CreatePaymentRequest - payload for the simulated payment
type CreatePaymentRequest struct {
	BookingID     int64   `json:"booking_id" binding:"required"`
	PaymentMethod string  `json:"payment_method" binding:"required,max=50"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
}

// RevertPaymentRequest - payload for reverting a payment
type RevertPaymentRequest struct {
	BookingID int64  `json:"booking_id" binding:"required"`
	Reason    string `json:"reason" binding:"required"`
}

// CancelEventResult reports the outcome of a bulk event cancellation.
type CancelEventResult struct {
	EventID           int64   `json:"event_id"`
	CancelledBookings []int64 `json:"cancelled_bookings"`
	FailedBookings    []int64 `json:"failed_bookings,omitempty"`
}
