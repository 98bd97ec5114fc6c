package email

import (
	"errors"
	"fmt"
)

// ErrDisabled is returned by Send when email delivery is switched off.
var ErrDisabled = errors.New("email is disabled")

type InvalidMessageError struct{ Reason string }

func (e *InvalidMessageError) Error() string { return "invalid email message: " + e.Reason }

type SendError struct {
	Host string
	Err  error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("email send failed (smtp %s): %v", e.Host, e.Err)
}
func (e *SendError) Unwrap() error { return e.Err }
