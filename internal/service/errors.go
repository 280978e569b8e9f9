package service

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int

	// Detail is the server-supplied message, empty when the body had none.
	Detail string

	// SessionEnded is set when the response ended the local session.
	SessionEnded bool
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("server returned %d", e.StatusCode)
}

// Unauthorized reports whether the server rejected the credentials.
func (e *APIError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// ErrorDetail returns the server-supplied detail carried by err, if any.
func ErrorDetail(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}

// IsSessionEnded reports whether err is the response that ended the session.
func IsSessionEnded(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.SessionEnded
}
