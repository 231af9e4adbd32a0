package browser

import (
	"context"
	"errors"
)

var (
	ErrUnavailable   = errors.New("browser runtime unavailable")
	ErrSessionClosed = errors.New("browser session closed")
	ErrWaitTimeout   = errors.New("wait for element timed out")
)

// IsTimeout reports whether the error came from a bounded wait
// expiring rather than a hard runtime failure.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrWaitTimeout) || errors.Is(err, context.DeadlineExceeded)
}
