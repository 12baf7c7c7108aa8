package gitlab

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/vilaca/gitlab-report/internal/api"
)

// httpPager implements Pager against the GitLab REST API v4.
type httpPager struct {
	baseURL    string
	token      string
	perPage    int
	httpClient api.HTTPClient
	logger     *slog.Logger
}

func (p *httpPager) Page(ctx context.Context, path string, params url.Values, page int) (Page, error) {
	query := url.Values{}
	for k, v := range params {
		query[k] = append([]string(nil), v...)
	}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(p.perPage))
	reqURL := fmt.Sprintf("%s/api/v4%s?%s", p.baseURL, path, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Page{}, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("PRIVATE-TOKEN", p.token)
	req.Header.Set("Accept", "application/json")

	p.logger.Debug("requesting page", "path", path, "page", page)
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return Page{}, &api.NetworkError{URL: reqURL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Page{}, &api.NetworkError{URL: reqURL, Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return Page{}, &api.AuthError{StatusCode: resp.StatusCode, Body: string(body)}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return Page{}, &api.APIError{URL: reqURL, StatusCode: resp.StatusCode, Body: string(body)}
	}

	next := 0
	if h := resp.Header.Get("X-Next-Page"); h != "" {
		next, err = strconv.Atoi(h)
		if err != nil {
			return Page{}, fmt.Errorf("invalid X-Next-Page header %q: %w", h, err)
		}
	}
	p.logger.Debug("received page", "path", path, "page", page, "next", next, "bytes", len(body))

	return Page{Body: body, Next: next}, nil
}
