// Package progress reports run stages and item counters on a console.
// Output is a usability affordance only; nothing reads it back.
package progress

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/dustin/go-humanize"
	"github.com/muesli/termenv"
)

// Reporter receives stage messages and per-item ticks.
type Reporter interface {
	// Text announces a new stage.
	Text(msg string)
	// Start begins a bounded scan over total items.
	Start(total int)
	// Advance marks one more item as scanned.
	Advance()
	// Finish completes the current scan.
	Finish()
	// Fetched reports the running number of items downloaded for a resource.
	Fetched(resource string, count int)
}

// Nop discards everything.
type Nop struct{}

func (Nop) Text(string)         {}
func (Nop) Start(int)           {}
func (Nop) Advance()            {}
func (Nop) Finish()             {}
func (Nop) Fetched(string, int) {}

// Console draws a bar that redraws in place on w.
type Console struct {
	w       io.Writer
	bar     progress.Model
	total   int
	current int
	inline  bool // a carriage-return line is on screen
}

// NewConsole creates a console reporter. With color disabled the bar is
// drawn in plain ASCII.
func NewConsole(w io.Writer, color bool) *Console {
	opts := []progress.Option{progress.WithWidth(28)}
	if color {
		opts = append(opts, progress.WithDefaultGradient())
	} else {
		opts = append(opts, progress.WithColorProfile(termenv.Ascii), progress.WithFillCharacters('=', '-'))
	}
	return &Console{w: w, bar: progress.New(opts...)}
}

func (c *Console) Text(msg string) {
	c.endLine()
	fmt.Fprintf(c.w, " %s\n", msg)
}

func (c *Console) Start(total int) {
	c.endLine()
	c.total = total
	c.current = 0
	c.draw()
}

func (c *Console) Advance() {
	if c.current < c.total {
		c.current++
	}
	c.draw()
}

func (c *Console) Finish() {
	c.current = c.total
	c.draw()
	c.endLine()
}

func (c *Console) Fetched(resource string, count int) {
	fmt.Fprintf(c.w, "\r %s %s fetched", humanize.Comma(int64(count)), resource)
	c.inline = true
}

func (c *Console) draw() {
	pct := 1.0
	if c.total > 0 {
		pct = float64(c.current) / float64(c.total)
	}
	fmt.Fprintf(c.w, "\r %s/%s %s",
		humanize.Comma(int64(c.current)), humanize.Comma(int64(c.total)), c.bar.ViewAs(pct))
	c.inline = true
}

func (c *Console) endLine() {
	if c.inline {
		fmt.Fprintln(c.w)
		c.inline = false
	}
}
