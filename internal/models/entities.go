package models

import "time"

// Role is the closed set of user roles.
type Role string

const (
	RoleUser         Role = "user"
	RoleEventManager Role = "event_manager"
)

// Booking lifecycle states. Cancelled is terminal.
const (
	BookingStatusBooked    = "booked"
	BookingStatusCancelled = "cancelled"
)

// Payment lifecycle states. Reverted is terminal.
const (
	PaymentStatusCompleted = "completed"
	PaymentStatusReverted  = "reverted"
)

// Identity is the already-authenticated caller of a core operation.
type Identity struct {
	UserID int64 `json:"user_id"`
	Role   Role  `json:"role"`
}

// User represents an account in the system
type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	Role         Role      `json:"role" db:"role"`
	RegisteredAt time.Time `json:"registered_at" db:"registered_at"`
}

// Event represents a schedulable occurrence with a finite ticket inventory.
// AvailableTickets is mutated only by the inventory ledger operations.
type Event struct {
	ID               int64     `json:"id" db:"id"`
	Title            string    `json:"title" db:"title"`
	Description      string    `json:"description" db:"description"`
	Date             string    `json:"date" db:"event_date"`
	Time             string    `json:"time" db:"event_time"`
	Location         string    `json:"location" db:"location"`
	Category         string    `json:"category" db:"category"`
	PaymentOptions   string    `json:"payment_options" db:"payment_options"`
	TotalTickets     int       `json:"total_tickets" db:"total_tickets"`
	AvailableTickets int       `json:"available_tickets" db:"available_tickets"`
	CreatedBy        int64     `json:"created_by" db:"created_by"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// Booking represents a user's reservation of N tickets against one event.
// NumberOfTickets and BookingDate are fixed at creation.
type Booking struct {
	ID              int64     `json:"id" db:"id"`
	UserID          int64     `json:"user_id" db:"user_id"`
	EventID         int64     `json:"event_id" db:"event_id"`
	NumberOfTickets int       `json:"number_of_tickets" db:"number_of_tickets"`
	Status          string    `json:"status" db:"status"`
	BookingDate     time.Time `json:"booking_date" db:"booking_date"`
}

// Payment is the recorded (simulated) charge tied one-to-one with a booking.
type Payment struct {
	ID            int64     `json:"id" db:"id"`
	BookingID     int64     `json:"booking_id" db:"booking_id"`
	PaymentMethod string    `json:"payment_method" db:"payment_method"`
	Amount        float64   `json:"amount" db:"amount"`
	Status        string    `json:"status" db:"status"`
	PaymentDate   time.Time `json:"payment_date" db:"payment_date"`
}

// BookingDetail is a booking together with its event, as returned by the
// my-bookings listing.
type BookingDetail struct {
	Booking
	Event Event `json:"event"`
}
