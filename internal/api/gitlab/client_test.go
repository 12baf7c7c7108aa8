package gitlab

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/vilaca/gitlab-report/internal/api"
	"github.com/vilaca/gitlab-report/internal/domain"
)

// mockHTTPClient is a test double for HTTPClient.
type mockHTTPClient struct {
	doFunc   func(req *http.Request) (*http.Response, error)
	requests []*http.Request
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	m.requests = append(m.requests, req)
	return m.doFunc(req)
}

func jsonResponse(status int, body string, nextPage string) *http.Response {
	header := http.Header{}
	if nextPage != "" {
		header.Set("X-Next-Page", nextPage)
	}
	return &http.Response{
		StatusCode: status,
		Header:     header,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}
}

func newTestClient(mockHTTP *mockHTTPClient) *Client {
	return NewClient(api.ClientConfig{
		BaseURL: "https://gitlab.com/",
		Token:   "test-token",
	}, mockHTTP, nil)
}

// TestGetProjects tests retrieving projects from GitLab.
// Follows AAA (Arrange, Act, Assert) pattern.
func TestGetProjects(t *testing.T) {
	// Arrange
	responseBody := `[
		{"id": 123, "name": "test-project", "path_with_namespace": "group/test-project", "web_url": "https://gitlab.com/group/test-project"}
	]`

	mockHTTP := &mockHTTPClient{
		doFunc: func(req *http.Request) (*http.Response, error) {
			if req.Header.Get("PRIVATE-TOKEN") != "test-token" {
				t.Error("expected PRIVATE-TOKEN header to be set")
			}
			return jsonResponse(http.StatusOK, responseBody, ""), nil
		},
	}
	client := newTestClient(mockHTTP)

	// Act
	projects, err := client.GetProjects(context.Background())

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	expected := []domain.Project{{
		ID:                123,
		Name:              "test-project",
		PathWithNamespace: "group/test-project",
		WebURL:            "https://gitlab.com/group/test-project",
	}}
	if diff := cmp.Diff(expected, projects); diff != "" {
		t.Errorf("projects mismatch (-want +got):\n%s", diff)
	}

	req := mockHTTP.requests[0]
	if req.URL.Path != "/api/v4/projects" {
		t.Errorf("expected path '/api/v4/projects', got '%s'", req.URL.Path)
	}
	if req.URL.Query().Get("membership") != "true" {
		t.Errorf("expected membership=true, got %q", req.URL.RawQuery)
	}
	if req.URL.Query().Get("per_page") != "100" {
		t.Errorf("expected per_page=100, got %q", req.URL.RawQuery)
	}
}

// TestGetProjects_FollowsPagination tests that every page is drained.
func TestGetProjects_FollowsPagination(t *testing.T) {
	// Arrange
	pages := map[string]struct {
		body string
		next string
	}{
		"1": {`[{"id": 1, "path_with_namespace": "a/one"}]`, "2"},
		"2": {`[{"id": 2, "path_with_namespace": "a/two"}]`, "3"},
		"3": {`[{"id": 3, "path_with_namespace": "a/three"}]`, ""},
	}

	mockHTTP := &mockHTTPClient{
		doFunc: func(req *http.Request) (*http.Response, error) {
			p, ok := pages[req.URL.Query().Get("page")]
			if !ok {
				t.Fatalf("unexpected page request %q", req.URL.RawQuery)
			}
			return jsonResponse(http.StatusOK, p.body, p.next), nil
		},
	}
	client := newTestClient(mockHTTP)

	var progress []int
	client.OnPage(func(resource string, fetched int) {
		if resource != "projects" {
			t.Errorf("expected resource 'projects', got '%s'", resource)
		}
		progress = append(progress, fetched)
	})

	// Act
	projects, err := client.GetProjects(context.Background())

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(projects) != 3 {
		t.Fatalf("expected 3 projects, got %d", len(projects))
	}
	if projects[2].PathWithNamespace != "a/three" {
		t.Errorf("expected last project 'a/three', got '%s'", projects[2].PathWithNamespace)
	}
	if len(mockHTTP.requests) != 3 {
		t.Errorf("expected 3 requests, got %d", len(mockHTTP.requests))
	}
	if diff := cmp.Diff([]int{1, 2, 3}, progress); diff != "" {
		t.Errorf("progress mismatch (-want +got):\n%s", diff)
	}
}

// TestGetProjects_Unauthorized tests that 401 maps to AuthError.
func TestGetProjects_Unauthorized(t *testing.T) {
	// Arrange
	mockHTTP := &mockHTTPClient{
		doFunc: func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusUnauthorized, `{"message":"401 Unauthorized"}`, ""), nil
		},
	}
	client := newTestClient(mockHTTP)

	// Act
	projects, err := client.GetProjects(context.Background())

	// Assert
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if projects != nil {
		t.Errorf("expected nil projects on error, got %v", projects)
	}

	var authErr *api.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError, got %T: %v", err, err)
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("expected error to mention status code 401, got: %v", err)
	}
}

// TestGetIssues_APIError tests error handling when API returns a server error.
func TestGetIssues_APIError(t *testing.T) {
	// Arrange
	mockHTTP := &mockHTTPClient{
		doFunc: func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusInternalServerError, `{"message":"500 Internal Server Error"}`, ""), nil
		},
	}
	client := newTestClient(mockHTTP)

	// Act
	_, err := client.GetIssues(context.Background(), 42)

	// Assert
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", apiErr.StatusCode)
	}
}

// TestGetIssues_NetworkError tests that transport failures map to NetworkError.
func TestGetIssues_NetworkError(t *testing.T) {
	// Arrange
	mockHTTP := &mockHTTPClient{
		doFunc: func(req *http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		},
	}
	client := newTestClient(mockHTTP)

	// Act
	_, err := client.GetIssues(context.Background(), 42)

	// Assert
	var netErr *api.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %T: %v", err, err)
	}
}

// TestGetIssues tests issue decoding and request parameters.
func TestGetIssues(t *testing.T) {
	// Arrange
	responseBody := `[
		{
			"id": 1001, "iid": 1, "project_id": 42, "title": "Crash on start",
			"state": "closed", "labels": ["bug"],
			"created_at": "2024-01-05T10:00:00.000Z", "closed_at": "2024-01-20T08:30:00.000Z",
			"web_url": "https://gitlab.com/group/p/-/issues/1"
		},
		{
			"id": 1002, "iid": 2, "project_id": 42, "title": "Dark mode",
			"state": "opened", "labels": ["feature"],
			"created_at": "2024-02-01T00:00:00.000+01:00", "closed_at": null,
			"web_url": "https://gitlab.com/group/p/-/issues/2"
		}
	]`

	mockHTTP := &mockHTTPClient{
		doFunc: func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, responseBody, ""), nil
		},
	}
	client := newTestClient(mockHTTP)

	// Act
	issues, err := client.GetIssues(context.Background(), 42)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	closedAt := time.Date(2024, 1, 20, 8, 30, 0, 0, time.UTC)
	expected := []domain.Issue{
		{
			ID: 1001, IID: 1, ProjectID: 42, Title: "Crash on start",
			State: domain.IssueClosed, Labels: []string{"bug"},
			CreatedAt: time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC), ClosedAt: &closedAt,
			WebURL: "https://gitlab.com/group/p/-/issues/1",
		},
		{
			ID: 1002, IID: 2, ProjectID: 42, Title: "Dark mode",
			State: domain.IssueOpened, Labels: []string{"feature"},
			CreatedAt: time.Date(2024, 1, 31, 23, 0, 0, 0, time.UTC),
			WebURL:    "https://gitlab.com/group/p/-/issues/2",
		},
	}
	if diff := cmp.Diff(expected, issues); diff != "" {
		t.Errorf("issues mismatch (-want +got):\n%s", diff)
	}

	req := mockHTTP.requests[0]
	if req.URL.Path != "/api/v4/projects/42/issues" {
		t.Errorf("expected path '/api/v4/projects/42/issues', got '%s'", req.URL.Path)
	}
	q := req.URL.Query()
	if q.Get("order_by") != "created_at" || q.Get("sort") != "asc" {
		t.Errorf("expected order_by=created_at&sort=asc, got %q", req.URL.RawQuery)
	}
}

// TestGetLabels tests retrieving project labels through a MemoryPager.
func TestGetLabels(t *testing.T) {
	// Arrange
	pager := &MemoryPager{Pages: map[string][]string{
		"/projects/7/labels": {
			`[{"id": 1, "name": "bug"}, {"id": 2, "name": "feature"}]`,
			`[{"id": 3, "name": "docs"}]`,
		},
	}}
	client := NewClientWithPager(pager, nil)

	// Act
	labels, err := client.GetLabels(context.Background(), 7)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	expected := []domain.Label{{Name: "bug"}, {Name: "feature"}, {Name: "docs"}}
	if diff := cmp.Diff(expected, labels); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
	if len(pager.Requests) != 2 {
		t.Errorf("expected 2 page requests, got %d", len(pager.Requests))
	}
}

// TestConvertState tests state conversion from GitLab to domain.
func TestConvertState(t *testing.T) {
	tests := []struct {
		name          string
		gitlabState   string
		expectedState domain.IssueState
	}{
		{"opened", "opened", domain.IssueOpened},
		{"closed", "closed", domain.IssueClosed},
		{"unknown", "locked", domain.IssueState("locked")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange & Act
			state := convertState(tt.gitlabState)

			// Assert
			if state != tt.expectedState {
				t.Errorf("expected state '%s', got '%s'", tt.expectedState, state)
			}
		})
	}
}
