// Package numeric coerces loosely typed request values (decoded JSON numbers,
// numeric strings) into integers.
package numeric

import (
	"errors"
	"math"
	"strings"

	"github.com/spf13/cast"
)

var (
	ErrNotNumeric = errors.New("value is not numeric")
	ErrNotInteger = errors.New("value is not a whole number")
)

// Int coerces v to an int. present is false for nil and blank strings, which
// callers treat as "not supplied". Booleans are rejected even though cast
// would map them to 0 or 1.
func Int(v any) (n int, present bool, err error) {
	switch x := v.(type) {
	case nil:
		return 0, false, nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false, nil
		}
		v = s
	case bool:
		return 0, true, ErrNotNumeric
	}

	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, true, ErrNotNumeric
	}
	if f != math.Trunc(f) {
		return 0, true, ErrNotInteger
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, true, ErrNotNumeric
	}
	return int(f), true, nil
}
