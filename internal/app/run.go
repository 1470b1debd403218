package app

import (
	"context"
	"fmt"

	"github.com/vk/convertkit/internal/ctxlog"
	"github.com/vk/convertkit/internal/job"
	"github.com/vk/convertkit/internal/pipeline"
	"github.com/vk/convertkit/internal/report"
	"github.com/vk/convertkit/internal/sched"
)

// Run executes one conversion job based on the provided configuration.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	// The job is published before the healthcheck server starts: the
	// progress handler goroutine reads a.current.
	j := job.New(a.config.Root, a.config.RemoveSources)
	a.current = j

	if a.config.HealthcheckPort > 0 {
		a.startHealthcheckServer(a.config.HealthcheckPort)
	}

	reporter, err := a.dialReporter(ctx)
	if err != nil {
		// A reporting collaborator that cannot be reached is not worth a
		// failed conversion; fall back to running unobserved.
		a.logger.Warn("Reporter unavailable, continuing without one.", "error", err)
		reporter = report.Noop{}
	}
	defer reporter.Close()

	release, err := a.locker.Acquire(a.config.Root)
	if err != nil {
		return err
	}
	defer release()

	p := pipeline.New(a.fs, a.interp, reporter, pipeline.Config{
		Patterns:  a.config.Patterns,
		Classes:   a.config.Classes,
		MaxPasses: a.config.MaxPasses,
		DryRun:    a.config.DryRun,
	})

	a.logger.Info("🚀 Starting conversion job.", "root", a.config.Root)
	runErr := sched.Run(ctx, func(ctx context.Context, y *sched.Yielder) error {
		return p.Run(ctx, y, j)
	})

	switch {
	case runErr != nil:
		reporter.Result(report.ResultFailure)
		return fmt.Errorf("conversion aborted: %w", runErr)
	case j.Outcome() == job.Success:
		reporter.Result(report.ResultSuccess)
		a.logger.Debug("App.Run method finished.")
		return nil
	default:
		reporter.Result(report.ResultFailure)
		return fmt.Errorf("conversion failed: %s", j.Outcome())
	}
}

// Job exposes the running job for observers. This is primarily for the
// progress endpoint and testing.
func (a *App) Job() *job.Job {
	return a.current
}

// dialReporter connects the configured reporting collaborator, if any.
func (a *App) dialReporter(ctx context.Context) (report.Reporter, error) {
	if a.config.ReportURL == "" {
		return report.Noop{}, nil
	}
	return report.DialSocketIO(ctx, a.config.ReportURL)
}
