package api

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned for any 401 response. Seeing it anywhere
// must force session termination; callers check with errors.Is.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a non-401 error response from the server.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: %s (status %d)", e.Detail, e.Status)
	}
	return fmt.Sprintf("api: unexpected status %d", e.Status)
}

// IsAuthFailure reports whether err should de-authenticate the session.
func IsAuthFailure(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
