package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound matches any 404 response.
var ErrNotFound = errors.New("not found")

// StatusError is returned for every non-2xx response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	// Message is the server supplied reason, if the body carried one.
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
}

// ServerMessage returns the backend's explanation, if any.
func (e *StatusError) ServerMessage() string {
	return e.Message
}

// Is reports 404 responses as ErrNotFound.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// StatusCode extracts the HTTP status from err, or 0 when err is not a
// StatusError.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
