// internal/browser/errors.go
package browser

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when no element matches a locator.
	ErrNotFound = errors.New("element not found")
	// ErrNoAlert is returned when no JavaScript dialog is open.
	ErrNoAlert = errors.New("no alert present")
	// ErrTimeout is matched by every *TimeoutError.
	ErrTimeout = errors.New("timed out waiting for condition")
	// ErrInvalidLocator is returned by ParseLocator.
	ErrInvalidLocator = errors.New("invalid locator")
)

// TimeoutError reports a readiness condition that did not hold within the wait policy.
type TimeoutError struct {
	Condition string
	Locator   Locator
	Timeout   time.Duration
	// Last is the most recent error seen while polling, if any.
	Last error
}

func (e *TimeoutError) Error() string {
	msg := fmt.Sprintf("timed out after %s waiting for %s", e.Timeout, e.Condition)
	if e.Locator.Valid() {
		msg += fmt.Sprintf(" (%s)", e.Locator)
	}
	if e.Last != nil {
		msg += ": " + e.Last.Error()
	}
	return msg
}

// Is lets errors.Is match ErrTimeout.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

func (e *TimeoutError) Unwrap() error {
	return e.Last
}
