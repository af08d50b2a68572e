package postings

import (
	"errors"
	"fmt"
)

// Error represents a transport-level failure talking to the postings backend.
type Error struct {
	Op      string
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s %s: %s: %v", e.Op, e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s %s: %s", e.Op, e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// StatusError is returned when the backend answers with a non-2xx status.
// Body holds the raw response text so it can be surfaced to the user.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Backend error: %d - %s", e.StatusCode, e.Body)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

// ErrCacheMiss is returned by a ListingCache when no listing is cached.
var ErrCacheMiss = errors.New("listing not cached")
