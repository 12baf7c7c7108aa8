// Package timeexpr turns free-form date expressions such as "2024-01-01",
// "yesterday" or "3 weeks ago" into absolute UTC instants.
package timeexpr

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	naturaldate "github.com/tj/go-naturaldate"
)

// Now is the expression that resolves to the reference instant.
const Now = "now"

// Parse resolves expr relative to now. Absolute dates without a zone are
// read as UTC; relative expressions look into the past. The result is in
// UTC with sub-second precision dropped.
func Parse(expr string, now time.Time) (time.Time, error) {
	s := strings.TrimSpace(expr)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date expression")
	}
	if strings.EqualFold(s, Now) {
		return normalise(now), nil
	}

	if t, err := dateparse.ParseIn(s, time.UTC); err == nil {
		return normalise(t), nil
	}

	t, err := naturaldate.Parse(s, now.UTC(), naturaldate.WithDirection(naturaldate.Past))
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot parse date expression %q: %w", expr, err)
	}
	return normalise(t), nil
}

func normalise(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}
