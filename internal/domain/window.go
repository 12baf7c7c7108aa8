package domain

import "time"

// Window is the half-open UTC interval [From, To) used to classify
// issues as opened or closed during the reporting period.
type Window struct {
	From time.Time
	To   time.Time
}

// NewWindow builds a window with both bounds normalised to UTC.
func NewWindow(from, to time.Time) Window {
	return Window{From: from.UTC(), To: to.UTC()}
}

// Contains reports whether t lies in [From, To).
// An inverted window (From after To) contains nothing.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && t.Before(w.To)
}

// IsEmpty returns true when no instant can fall inside the window.
func (w Window) IsEmpty() bool {
	return !w.From.Before(w.To)
}
