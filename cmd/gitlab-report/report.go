package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/vilaca/gitlab-report/internal/config"
	"github.com/vilaca/gitlab-report/internal/domain"
	"github.com/vilaca/gitlab-report/internal/logging"
	"github.com/vilaca/gitlab-report/internal/progress"
	"github.com/vilaca/gitlab-report/internal/render"
	"github.com/vilaca/gitlab-report/internal/service"
	"github.com/vilaca/gitlab-report/internal/timeexpr"
)

type reportOptions struct {
	configPath string
	labels     []string
	format     string
	logLevel   string
	logFormat  string
	noColor    bool
	quiet      bool
}

func newRootCmd(a app) *cobra.Command {
	var opts reportOptions

	cmd := &cobra.Command{
		Use:   "gitlab-report <project> <from> [<to>]",
		Short: "Summarise opened, closed and active issues of a GitLab project",
		Long: `gitlab-report counts the issues of one GitLab project opened and closed
within [from, to), plus the issues open right now, split by label.

<from> and <to> accept free-form dates ("2024-01-01", "3 weeks ago");
<to> defaults to "now".`,
		Args:          cobra.RangeArgs(2, 3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.Context(), a, opts, args, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringArrayVarP(&opts.labels, "label", "l", nil, "limit the report to this label (repeatable)")
	cmd.Flags().StringVar(&opts.configPath, "config", config.DefaultPath, "path to the YAML config file")
	cmd.Flags().StringVar(&opts.format, "format", "table", "output format: table or json")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	cmd.Flags().StringVar(&opts.logFormat, "log-format", "text", "log format: text or json")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "disable colors and styled borders")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "do not print progress")

	return cmd
}

func runReport(ctx context.Context, a app, opts reportOptions, args []string, stdout, stderr io.Writer) error {
	logger, err := logging.New(opts.logLevel, opts.logFormat, stderr)
	if err != nil {
		return err
	}

	renderer, err := newRenderer(opts.format, !opts.noColor && isTerminal(stdout))
	if err != nil {
		return err
	}

	window, err := parseWindow(args[1:], a.now())
	if err != nil {
		return err
	}
	if window.IsEmpty() {
		logger.Warn("window start is not before its end; opened and closed counts will be zero",
			"from", window.From, "to", window.To)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	logger.Debug("loaded config", "url", cfg.URL, "token", cfg.MaskedToken())

	var reporter progress.Reporter = progress.Nop{}
	if !opts.quiet {
		reporter = progress.NewConsole(stderr, !opts.noColor && isTerminal(stderr))
	}

	client := a.newTracker(cfg, logger)
	client.OnPage(reporter.Fetched)

	svc := service.NewReportService(client, reporter, logger)
	report, err := svc.Build(ctx, service.ReportRequest{
		ProjectPath: args[0],
		Window:      window,
		Labels:      opts.labels,
	})
	if err != nil {
		var nf *service.NotFoundError
		if errors.As(err, &nf) {
			return &exitError{Code: exitNotFound, Err: nf}
		}
		return err
	}

	return renderer.Render(stdout, report)
}

// parseWindow resolves [from] or [from, to] against now; to defaults to now.
func parseWindow(exprs []string, now time.Time) (domain.Window, error) {
	toExpr := timeexpr.Now
	if len(exprs) > 1 {
		toExpr = exprs[1]
	}

	from, err := timeexpr.Parse(exprs[0], now)
	if err != nil {
		return domain.Window{}, fmt.Errorf("invalid <from>: %w", err)
	}
	to, err := timeexpr.Parse(toExpr, now)
	if err != nil {
		return domain.Window{}, fmt.Errorf("invalid <to>: %w", err)
	}
	return domain.NewWindow(from, to), nil
}

func newRenderer(format string, color bool) (render.Renderer, error) {
	switch format {
	case "table":
		return render.NewConsoleRenderer(color), nil
	case "json":
		return render.NewJSONRenderer(), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
