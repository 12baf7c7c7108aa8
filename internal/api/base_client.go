package api

import (
	"net/http"
)

const (
	// DefaultPageSize is the number of items requested per page.
	// GitLab caps per_page at 100.
	DefaultPageSize = 100
)

// HTTPClient interface for HTTP operations (allows mocking in tests).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
