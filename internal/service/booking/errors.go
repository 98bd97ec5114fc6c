package booking

import "errors"

var (
	ErrNotFound          = errors.New("booking not found")
	ErrInvalidStatus     = errors.New("invalid booking status")
	ErrInvalidTransition = errors.New("booking status change not allowed")
	ErrInvalidRange      = errors.New("start must not be after end")
)
