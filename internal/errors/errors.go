package errors

import "errors"

// Domain errors returned by repositories and services. All of them are
// expected outcomes reported synchronously to the caller; none are
// process-fatal.
var (
	ErrUnauthorized = errors.New("user is not authorized")
	ErrForbidden    = errors.New("operation is forbidden for user")

	// ErrNotFound covers both missing and not-owned resources, so a
	// non-owner cannot learn that a resource exists.
	ErrNotFound = errors.New("resource not found")

	ErrInsufficientInventory = errors.New("not enough tickets available")
	ErrAlreadyCancelled      = errors.New("booking already cancelled")
	ErrBookingCancelled      = errors.New("cannot make payment for a cancelled booking")
	ErrDuplicatePayment      = errors.New("payment already made for this booking")
	ErrPaymentNotFound       = errors.New("no payment found for this booking")
	ErrAlreadyReverted       = errors.New("payment already reverted")

	ErrUserExists = errors.New("username or email already registered")
)
