package dispatch

import (
	"errors"
	"fmt"
)

// DefaultRetries bounds display submissions that keep failing.
const DefaultRetries = 16

var ErrRetriesExhausted = errors.New("dispatch: retries exhausted")

// Retry calls fn until it succeeds or attempts calls have failed. The
// returned error wraps both ErrRetriesExhausted and the last failure.
func Retry(attempts int, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	var last error
	for i := 0; i < attempts; i++ {
		if last = fn(); last == nil {
			return nil
		}
	}
	return fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, attempts, last)
}
