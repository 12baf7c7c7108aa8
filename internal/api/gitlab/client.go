package gitlab

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/vilaca/gitlab-report/internal/api"
	"github.com/vilaca/gitlab-report/internal/domain"
)

// Client implements api.IssueTracker for GitLab.
// Every read drains all pages of the underlying collection.
type Client struct {
	pager  Pager
	logger *slog.Logger
	onPage func(resource string, fetched int)
}

// NewClient creates a new GitLab client talking HTTP.
// Uses dependency injection for HTTPClient so tests can stub the transport.
func NewClient(config api.ClientConfig, httpClient api.HTTPClient, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return NewClientWithPager(&httpPager{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		token:      config.Token,
		perPage:    api.DefaultPageSize,
		httpClient: httpClient,
		logger:     logger,
	}, logger)
}

// NewClientWithPager creates a client over an arbitrary Pager.
func NewClientWithPager(pager Pager, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{pager: pager, logger: logger}
}

// OnPage registers a callback invoked after each page with the running
// number of items fetched for the resource ("projects", "issues", "labels").
func (c *Client) OnPage(fn func(resource string, fetched int)) {
	c.onPage = fn
}

// GetProjects retrieves all projects the token is a member of.
func (c *Client) GetProjects(ctx context.Context) ([]domain.Project, error) {
	params := url.Values{"membership": {"true"}}

	glProjects, err := FetchAll[gitlabProject](ctx, c.pager, "/projects", params, c.progress("projects"))
	if err != nil {
		return nil, fmt.Errorf("failed to get projects: %w", err)
	}
	c.logger.Info("fetched projects", "count", len(glProjects))

	return convertProjects(glProjects), nil
}

// GetIssues retrieves all issues of a project ordered by creation time, oldest first.
func (c *Client) GetIssues(ctx context.Context, projectID int) ([]domain.Issue, error) {
	path := fmt.Sprintf("/projects/%d/issues", projectID)
	params := url.Values{
		"order_by": {"created_at"},
		"sort":     {"asc"},
	}

	glIssues, err := FetchAll[gitlabIssue](ctx, c.pager, path, params, c.progress("issues"))
	if err != nil {
		return nil, fmt.Errorf("failed to get issues: %w", err)
	}
	c.logger.Info("fetched issues", "project_id", projectID, "count", len(glIssues))

	return convertIssues(glIssues), nil
}

// GetLabels retrieves all labels defined on a project.
func (c *Client) GetLabels(ctx context.Context, projectID int) ([]domain.Label, error) {
	path := fmt.Sprintf("/projects/%d/labels", projectID)

	glLabels, err := FetchAll[gitlabLabel](ctx, c.pager, path, nil, c.progress("labels"))
	if err != nil {
		return nil, fmt.Errorf("failed to get labels: %w", err)
	}
	c.logger.Info("fetched labels", "project_id", projectID, "count", len(glLabels))

	labels := make([]domain.Label, len(glLabels))
	for i, gl := range glLabels {
		labels[i] = domain.Label{Name: gl.Name}
	}
	return labels, nil
}

func (c *Client) progress(resource string) func(int) {
	if c.onPage == nil {
		return nil
	}
	return func(fetched int) { c.onPage(resource, fetched) }
}

// convertProjects converts GitLab projects to domain models.
func convertProjects(glProjects []gitlabProject) []domain.Project {
	projects := make([]domain.Project, len(glProjects))
	for i, glp := range glProjects {
		projects[i] = domain.Project{
			ID:                glp.ID,
			Name:              glp.Name,
			PathWithNamespace: glp.PathWithNamespace,
			WebURL:            glp.WebURL,
		}
	}
	return projects
}

// convertIssues converts GitLab issues to domain models.
func convertIssues(glIssues []gitlabIssue) []domain.Issue {
	issues := make([]domain.Issue, len(glIssues))
	for i, gli := range glIssues {
		var closedAt *time.Time
		if gli.ClosedAt != nil {
			t := gli.ClosedAt.UTC()
			closedAt = &t
		}
		issues[i] = domain.Issue{
			ID:        gli.ID,
			IID:       gli.IID,
			ProjectID: gli.ProjectID,
			Title:     gli.Title,
			State:     convertState(gli.State),
			Labels:    gli.Labels,
			CreatedAt: gli.CreatedAt.UTC(),
			ClosedAt:  closedAt,
			WebURL:    gli.WebURL,
		}
	}
	return issues
}

// convertState converts a GitLab issue state to the domain state.
func convertState(glState string) domain.IssueState {
	switch glState {
	case "opened":
		return domain.IssueOpened
	case "closed":
		return domain.IssueClosed
	default:
		return domain.IssueState(glState)
	}
}

// GitLab API response types
type gitlabProject struct {
	ID                int    `json:"id"`
	Name              string `json:"name"`
	PathWithNamespace string `json:"path_with_namespace"`
	WebURL            string `json:"web_url"`
}

type gitlabIssue struct {
	ID        int        `json:"id"`
	IID       int        `json:"iid"`
	ProjectID int        `json:"project_id"`
	Title     string     `json:"title"`
	State     string     `json:"state"`
	Labels    []string   `json:"labels"`
	CreatedAt time.Time  `json:"created_at"`
	ClosedAt  *time.Time `json:"closed_at"`
	WebURL    string     `json:"web_url"`
}

type gitlabLabel struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
