package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/vilaca/gitlab-report/internal/api"
	"github.com/vilaca/gitlab-report/internal/api/gitlab"
	"github.com/vilaca/gitlab-report/internal/config"
)

// Exit codes.
const (
	exitOK       = 0
	exitNotFound = 1
	exitFailure  = 2
)

type exitError struct {
	Code int
	Err  error
}

func (e *exitError) Error() string {
	if e == nil || e.Err == nil {
		return "command failed"
	}
	return e.Err.Error()
}

func (e *exitError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// app holds the collaborators the command is built from.
type app struct {
	now        func() time.Time
	newTracker func(cfg *config.Config, logger *slog.Logger) *gitlab.Client
}

func defaultApp() app {
	return app{
		now: time.Now,
		newTracker: func(cfg *config.Config, logger *slog.Logger) *gitlab.Client {
			httpClient := &http.Client{
				Timeout: 30 * time.Second,
			}
			return gitlab.NewClient(api.ClientConfig{
				BaseURL: cfg.URL,
				Token:   cfg.Token,
			}, httpClient, logger)
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd(defaultApp()).ExecuteContext(ctx)
	stop()
	os.Exit(exitCode(err, os.Stderr))
}

// exitCode reports err on stderr and maps it to a process exit status.
func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return exitOK
	}

	var coded *exitError
	if errors.As(err, &coded) {
		if coded.Err != nil {
			_, _ = fmt.Fprintf(stderr, "[ERROR] %v\n", coded.Err)
		}
		return coded.Code
	}
	_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
	return exitFailure
}
