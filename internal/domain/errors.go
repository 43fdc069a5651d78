package domain

import "errors"

// Sentinel errors for the client. API responses and view-models map onto
// these so callers can branch without inspecting HTTP status codes.
var (
	ErrNotFound        = errors.New("resource not found")
	ErrUnauthenticated = errors.New("not logged in")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnavailable     = errors.New("backend unavailable")
	ErrSessionExpired  = errors.New("session expired")
)
