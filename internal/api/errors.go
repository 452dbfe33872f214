package api

import (
	"errors"
	"fmt"
)

// ErrUnavailable wraps failures where the API could not be reached at all.
var ErrUnavailable = errors.New("api unavailable")

// Error is a response the API produced with success=false or a non-2xx status.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: %s (HTTP %d)", e.Message, e.StatusCode)
}

// IsUnavailable reports whether err means the request never got an answer
// and may be retried later.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// StatusCode extracts the HTTP status of an API error, or 0.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
