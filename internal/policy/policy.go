// Package policy holds the authorization predicates consulted before every
// mutating operation. They are pure functions over the authenticated
// identity and the target resource; no side effects, no framework
// middleware.
package policy

import "bilet/internal/models"

// CanManageEvents reports whether the actor may create or cancel events.
func CanManageEvents(actor models.Identity) bool {
	return actor.Role == models.RoleEventManager
}

// OwnsBooking reports whether the booking belongs to the actor.
func OwnsBooking(actor models.Identity, booking *models.Booking) bool {
	return booking != nil && booking.UserID == actor.UserID
}

// OwnsEvent reports whether the actor is the creating event manager.
func OwnsEvent(actor models.Identity, event *models.Event) bool {
	return event != nil && event.CreatedBy == actor.UserID
}
