package repository

import (
	"bilet/internal/database"
)

type Repositories struct {
	Users    *UserRepository
	Events   *EventRepository
	Bookings *BookingRepository
	Payments *PaymentRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Users:    NewUserRepository(db),
		Events:   NewEventRepository(db),
		Bookings: NewBookingRepository(db),
		Payments: NewPaymentRepository(db),
	}
}
