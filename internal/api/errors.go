package api

import (
	"fmt"
)

// NetworkError is returned when a request never produced an HTTP response.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// AuthError is returned when the API rejects the configured token.
type AuthError struct {
	StatusCode int
	Body       string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("API rejected credentials (status %d): %s", e.StatusCode, e.Body)
}

// APIError is returned for any other non-success HTTP status.
type APIError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API returned status %d for %s: %s", e.StatusCode, e.URL, e.Body)
}
