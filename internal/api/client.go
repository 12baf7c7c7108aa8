package api

import (
	"context"

	"github.com/vilaca/gitlab-report/internal/domain"
)

// IssueTracker defines the reads the report needs from a tracker.
// Consumers depend on this interface, not on the GitLab implementation.
type IssueTracker interface {
	// GetProjects returns every project the configured token is a member of.
	GetProjects(ctx context.Context) ([]domain.Project, error)

	// GetIssues returns every issue of a project, oldest first.
	GetIssues(ctx context.Context, projectID int) ([]domain.Issue, error)

	// GetLabels returns every label defined on a project.
	GetLabels(ctx context.Context, projectID int) ([]domain.Label, error)
}

// ClientConfig holds common configuration for API clients.
type ClientConfig struct {
	BaseURL string
	Token   string
}
