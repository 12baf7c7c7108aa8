package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/goccy/go-json"
	"github.com/muesli/termenv"

	"github.com/vilaca/gitlab-report/internal/domain"
)

// TimestampLayout renders window bounds as ISO 8601 with a numeric offset.
const TimestampLayout = "2006-01-02T15:04:05-07:00"

// Headers are the report table's column titles.
var Headers = []string{"Label", "Opened issues", "Closed issues", "Active issues (now)"}

// Renderer writes a finished report to an output stream.
type Renderer interface {
	Render(w io.Writer, report *domain.Report) error
}

// Title returns the heading line naming the project and the window.
func Title(report *domain.Report) string {
	return fmt.Sprintf("GitLab report for %s from %s to %s",
		report.ProjectPath,
		report.Window.From.Format(TimestampLayout),
		report.Window.To.Format(TimestampLayout))
}

// ConsoleRenderer implements Renderer with a lipgloss title and table.
type ConsoleRenderer struct {
	color bool
}

// NewConsoleRenderer creates a console renderer. Without color the output is plain ASCII.
func NewConsoleRenderer(color bool) *ConsoleRenderer {
	return &ConsoleRenderer{color: color}
}

func (r *ConsoleRenderer) Render(w io.Writer, report *domain.Report) error {
	lr := lipgloss.NewRenderer(w)
	border := lipgloss.RoundedBorder()
	if !r.color {
		lr.SetColorProfile(termenv.Ascii)
		border = lipgloss.ASCIIBorder()
	}

	title := Title(report)
	titleStyle := lr.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	cell := lr.NewStyle().Padding(0, 1)

	t := table.New().
		Border(border).
		BorderStyle(lr.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers(Headers...).
		Rows(tableRows(report.Rows)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return cell.Bold(true)
			case col > 0:
				return cell.Align(lipgloss.Right)
			default:
				return cell
			}
		})

	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(titleStyle.Render(title) + "\n")
	sb.WriteString(titleStyle.Render(strings.Repeat("=", lipgloss.Width(title))) + "\n\n")
	sb.WriteString(t.Render() + "\n\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func tableRows(rows []domain.Row) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{
			r.Label,
			strconv.Itoa(r.Opened),
			strconv.Itoa(r.Closed),
			strconv.Itoa(r.Active),
		}
	}
	return out
}

// JSONRenderer implements Renderer for machine-readable output.
type JSONRenderer struct{}

// NewJSONRenderer creates a new JSON renderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

type jsonRow struct {
	Label  string `json:"label"`
	Opened int    `json:"opened"`
	Closed int    `json:"closed"`
	Active int    `json:"active"`
}

func (r *JSONRenderer) Render(w io.Writer, report *domain.Report) error {
	rows := make([]jsonRow, len(report.Rows))
	for i, row := range report.Rows {
		rows[i] = jsonRow(row)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]interface{}{
		"project": report.ProjectPath,
		"from":    report.Window.From.Format(TimestampLayout),
		"to":      report.Window.To.Format(TimestampLayout),
		"rows":    rows,
	})
}
