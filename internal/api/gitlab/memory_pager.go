package gitlab

import (
	"context"
	"net/http"
	"net/url"

	"github.com/vilaca/gitlab-report/internal/api"
)

// PageRequest records one call made to a MemoryPager.
type PageRequest struct {
	Path   string
	Params url.Values
	Page   int
}

// MemoryPager is an in-memory Pager serving canned JSON pages per path.
// Unknown paths answer like GitLab does for a missing resource.
type MemoryPager struct {
	Pages    map[string][]string
	Requests []PageRequest
}

func (m *MemoryPager) Page(_ context.Context, path string, params url.Values, page int) (Page, error) {
	m.Requests = append(m.Requests, PageRequest{Path: path, Params: params, Page: page})

	pages, ok := m.Pages[path]
	if !ok {
		return Page{}, &api.APIError{URL: path, StatusCode: http.StatusNotFound, Body: `{"message":"404 Not found"}`}
	}
	if page < 1 || page > len(pages) {
		return Page{Body: []byte("[]")}, nil
	}

	next := 0
	if page < len(pages) {
		next = page + 1
	}
	return Page{Body: []byte(pages[page-1]), Next: next}, nil
}
