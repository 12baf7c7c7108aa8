package gitlab

import (
	"context"
	"fmt"
	"net/url"

	"github.com/goccy/go-json"
)

// Page is one page of a GitLab collection endpoint.
type Page struct {
	Body []byte // raw JSON array
	Next int    // next page number, 0 when this is the last page
}

// Pager fetches a single page of a collection resource.
// The HTTP adapter talks to GitLab; MemoryPager serves canned pages in tests.
type Pager interface {
	Page(ctx context.Context, path string, params url.Values, page int) (Page, error)
}

// FetchAll drains every page of path and returns the full collection.
// It stops on the first empty page or when the pager reports no next page,
// and never returns a partial collection alongside a nil error.
// onPage, if non-nil, is called after each page with the running total.
func FetchAll[T any](ctx context.Context, p Pager, path string, params url.Values, onPage func(fetched int)) ([]T, error) {
	var all []T
	page := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pg, err := p.Page(ctx, path, params, page)
		if err != nil {
			return nil, err
		}

		var items []T
		if err := json.Unmarshal(pg.Body, &items); err != nil {
			return nil, fmt.Errorf("failed to decode page %d of %s: %w", page, path, err)
		}
		if len(items) == 0 {
			break
		}

		all = append(all, items...)
		if onPage != nil {
			onPage(len(all))
		}

		if pg.Next == 0 {
			break
		}
		if pg.Next <= page {
			return nil, fmt.Errorf("pagination of %s did not advance past page %d", path, page)
		}
		page = pg.Next
	}
	return all, nil
}
