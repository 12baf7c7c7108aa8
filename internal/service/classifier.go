package service

import (
	"slices"

	"github.com/vilaca/gitlab-report/internal/domain"
)

// IssueFilter decides whether an issue belongs to a subset.
type IssueFilter func(domain.Issue) bool

// CreatedWithin matches issues created inside the window.
func CreatedWithin(w domain.Window) IssueFilter {
	return func(i domain.Issue) bool {
		return w.Contains(i.CreatedAt)
	}
}

// ClosedWithin matches issues with a closing time inside the window.
// Issues that were never closed never match.
func ClosedWithin(w domain.Window) IssueFilter {
	return func(i domain.Issue) bool {
		return i.ClosedAt != nil && w.Contains(*i.ClosedAt)
	}
}

// IsActive matches issues currently open, whatever the window.
func IsActive() IssueFilter {
	return func(i domain.Issue) bool {
		return i.IsOpen()
	}
}

// HasLabel matches issues carrying the exact label name.
func HasLabel(name string) IssueFilter {
	return func(i domain.Issue) bool {
		return i.HasLabel(name)
	}
}

// Filter returns the issues matching keep, preserving order.
// tick, if non-nil, is called once per inspected issue.
func Filter(issues []domain.Issue, keep IssueFilter, tick func()) []domain.Issue {
	var out []domain.Issue
	for _, i := range issues {
		if tick != nil {
			tick()
		}
		if keep(i) {
			out = append(out, i)
		}
	}
	return out
}

// Count returns how many issues match keep.
func Count(issues []domain.Issue, keep IssueFilter) int {
	n := 0
	for _, i := range issues {
		if keep(i) {
			n++
		}
	}
	return n
}

// Classification holds the three subsets a report is built from.
type Classification struct {
	Opened []domain.Issue
	Closed []domain.Issue
	Active []domain.Issue
}

// Classify splits issues into opened-in-window, closed-in-window and currently active.
func Classify(issues []domain.Issue, w domain.Window) Classification {
	return Classification{
		Opened: Filter(issues, CreatedWithin(w), nil),
		Closed: Filter(issues, ClosedWithin(w), nil),
		Active: Filter(issues, IsActive(), nil),
	}
}

// SelectLabels returns the label names to report on, sorted ascending.
// With no chosen labels every project label is used; otherwise only chosen
// labels that exist on the project are kept.
func SelectLabels(projectLabels []domain.Label, chosen []string) []string {
	names := make([]string, 0, len(projectLabels))
	for _, l := range projectLabels {
		if len(chosen) == 0 || slices.Contains(chosen, l.Name) {
			names = append(names, l.Name)
		}
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// AllRow counts every issue in each subset.
func AllRow(c Classification) domain.Row {
	return domain.Row{
		Label:  domain.AllLabel,
		Opened: len(c.Opened),
		Closed: len(c.Closed),
		Active: len(c.Active),
	}
}

// LabelRow counts the issues in each subset carrying label.
// An issue with several labels is counted in each of their rows.
func LabelRow(c Classification, label string) domain.Row {
	has := HasLabel(label)
	return domain.Row{
		Label:  label,
		Opened: Count(c.Opened, has),
		Closed: Count(c.Closed, has),
		Active: Count(c.Active, has),
	}
}

// BuildRows returns the ALL row followed by one row per label, in the given order.
func BuildRows(c Classification, labels []string) []domain.Row {
	rows := make([]domain.Row, 0, len(labels)+1)
	rows = append(rows, AllRow(c))
	for _, l := range labels {
		rows = append(rows, LabelRow(c, l))
	}
	return rows
}
