package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vilaca/gitlab-report/internal/api"
	"github.com/vilaca/gitlab-report/internal/domain"
	"github.com/vilaca/gitlab-report/internal/progress"
)

// ReportRequest describes one report run.
type ReportRequest struct {
	ProjectPath string
	Window      domain.Window
	Labels      []string // empty means every project label
}

// ReportService runs the fetch, resolve and classify stages in sequence.
type ReportService struct {
	tracker  api.IssueTracker
	progress progress.Reporter
	logger   *slog.Logger
}

// NewReportService creates a new report service.
func NewReportService(tracker api.IssueTracker, reporter progress.Reporter, logger *slog.Logger) *ReportService {
	if reporter == nil {
		reporter = progress.Nop{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ReportService{
		tracker:  tracker,
		progress: reporter,
		logger:   logger,
	}
}

// Build fetches everything needed for req and returns the report rows.
// A missing project yields a *NotFoundError before any issue is fetched.
func (s *ReportService) Build(ctx context.Context, req ReportRequest) (*domain.Report, error) {
	s.progress.Text("Fetching projects...")
	projects, err := s.tracker.GetProjects(ctx)
	if err != nil {
		return nil, err
	}

	s.progress.Text(fmt.Sprintf("Looking for %s...", req.ProjectPath))
	s.progress.Start(len(projects))
	project, err := ResolveProject(projects, req.ProjectPath, s.progress.Advance)
	s.progress.Finish()
	if err != nil {
		return nil, err
	}
	s.logger.Debug("resolved project", "path", project.PathWithNamespace, "id", project.ID)

	s.progress.Text("Fetching issues...")
	issues, err := s.tracker.GetIssues(ctx, project.ID)
	if err != nil {
		return nil, err
	}

	c := Classification{
		Opened: s.scan("Looking for opened issues...", issues, CreatedWithin(req.Window)),
		Closed: s.scan("Looking for closed issues...", issues, ClosedWithin(req.Window)),
		Active: s.scan("Looking for active issues...", issues, IsActive()),
	}
	s.logger.Debug("classified issues",
		"total", len(issues), "opened", len(c.Opened), "closed", len(c.Closed), "active", len(c.Active))

	s.progress.Text("Fetching labels...")
	projectLabels, err := s.tracker.GetLabels(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	labels := SelectLabels(projectLabels, req.Labels)
	if len(req.Labels) > 0 && len(labels) < len(req.Labels) {
		s.logger.Info("ignoring labels not defined on project", "requested", req.Labels, "kept", labels)
	}

	s.progress.Text("Splitting by label...")
	s.progress.Start(len(labels))
	rows := make([]domain.Row, 0, len(labels)+1)
	rows = append(rows, AllRow(c))
	for _, l := range labels {
		rows = append(rows, LabelRow(c, l))
		s.progress.Advance()
	}
	s.progress.Finish()

	return &domain.Report{
		ProjectPath: req.ProjectPath,
		Window:      req.Window,
		Rows:        rows,
	}, nil
}

func (s *ReportService) scan(stage string, issues []domain.Issue, keep IssueFilter) []domain.Issue {
	s.progress.Text(stage)
	s.progress.Start(len(issues))
	out := Filter(issues, keep, s.progress.Advance)
	s.progress.Finish()
	return out
}
