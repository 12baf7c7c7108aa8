package domain

import "time"

// IssueState is the lifecycle state GitLab reports for an issue.
type IssueState string

const (
	IssueOpened IssueState = "opened"
	IssueClosed IssueState = "closed"
)

// Issue represents a GitLab issue as fetched at report time.
type Issue struct {
	ID        int
	IID       int
	ProjectID int
	Title     string
	State     IssueState // "opened", "closed"
	Labels    []string
	CreatedAt time.Time
	ClosedAt  *time.Time // nil while the issue has never been closed
	WebURL    string
}

// IsOpen returns true if the issue is currently in the opened state.
func (i Issue) IsOpen() bool {
	return i.State == IssueOpened
}

// HasLabel reports whether the issue carries the exact label name.
func (i Issue) HasLabel(name string) bool {
	for _, l := range i.Labels {
		if l == name {
			return true
		}
	}
	return false
}
