package apperrors

import "errors"

var (
	ErrEventNotFound         = errors.New("event not found")
	ErrTicketNotFound        = errors.New("ticket not found")
	ErrInvalidInput          = errors.New("invalid input")
	ErrInvalidQuantity       = errors.New("invalid quantity")
	ErrInsufficientInventory = errors.New("insufficient inventory")
	ErrReservationConflict   = errors.New("reservation conflict")
	ErrInvalidTicketStatus   = errors.New("invalid ticket status")
	ErrAvailabilityNotCached = errors.New("availability not cached")
	ErrInternalServerError   = errors.New("internal server error")
)
