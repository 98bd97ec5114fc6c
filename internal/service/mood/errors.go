package mood

import "errors"

var (
	ErrInvalidMood = errors.New("mood must be a whole number between 1 and 5")
	ErrNoteTooLong = errors.New("note is too long")
	ErrMissingMood = errors.New("mood is required")
)
