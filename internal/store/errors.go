package store

import "errors"

var (
	ErrServiceNotFound  = errors.New("service not found")
	ErrUnknownCounter   = errors.New("unknown counter")
	ErrCounterInactive  = errors.New("counter inactive")
	ErrNoCustomer       = errors.New("no customer available")
	ErrNoActiveTicket   = errors.New("no active ticket for counter")
	ErrDuplicateCode    = errors.New("duplicate waitlist code")
	ErrTicketNotFound   = errors.New("ticket not found")
	ErrInvalidState     = errors.New("invalid ticket state")
	ErrStoreUnavailable = errors.New("store unavailable")
)
