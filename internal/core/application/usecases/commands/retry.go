package commands

import (
	"errors"
	"fmt"

	"fooddelivery/internal/pkg/errs"
)

// defaultMaxAttempts bounds how often a handler reloads an order after losing
// an optimistic concurrency race before giving up.
const defaultMaxAttempts = 5

// ErrTooManyConflicts is returned when every attempt lost a version race.
var ErrTooManyConflicts = errors.New("order is being modified concurrently")

// retryOnConflict runs fn until it returns something other than a version conflict.
func retryOnConflict[T any](attempts int, fn func() (T, error)) (T, error) {
	var zero T
	if attempts < 1 {
		attempts = 1
	}
	for range attempts {
		result, err := fn()
		if errors.Is(err, errs.ErrVersionIsInvalid) {
			continue
		}
		return result, err
	}
	return zero, fmt.Errorf("%w: gave up after %d attempts", ErrTooManyConflicts, attempts)
}
