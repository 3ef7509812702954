package remote

import (
	"errors"
	"fmt"
	"net/http"
)

// FetchError is returned for any non 2xx response and for transport level
// failures, in which case Status is 0.
type FetchError struct {
	Status  int
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("request failed: %s", e.Message)
	}
	return fmt.Sprintf("request failed (%d): %s", e.Status, e.Message)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsUnauthorized reports whether err means the session credentials were
// rejected and the user needs to log in again.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized) || hasStatus(err, http.StatusForbidden)
}

func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// Message extracts the user facing message of err, falling back to fallback
// when err carries none.
func Message(err error, fallback string) string {
	var fe *FetchError
	if errors.As(err, &fe) && fe.Message != "" {
		return fe.Message
	}
	return fallback
}

func hasStatus(err error, status int) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Status == status
}
