package repo

import (
	"errors"

	"github.com/lib/pq"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
	// ErrStale is returned by conditional updates whose precondition no
	// longer holds.
	ErrStale = errors.New("record was modified concurrently")
)

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

func IsDuplicate(err error) bool { return errors.Is(err, ErrDuplicate) }

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
