package notification

import "errors"

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrUnknownEvent    = errors.New("unknown booking event")
)
