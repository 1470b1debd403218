package pipeline

import (
	"context"

	"github.com/vk/convertkit/internal/ctxlog"
	"github.com/vk/convertkit/internal/discovery"
	"github.com/vk/convertkit/internal/job"
	"github.com/vk/convertkit/internal/sched"
)

// cleanup deletes the original legacy files once convergence is reached.
// Deletion is strictly best-effort: a file that cannot be removed is logged
// and counted, and the batch carries on. Partial deletion failure never
// fails the job.
func (p *Pipeline) cleanup(ctx context.Context, y *sched.Yielder, j *job.Job, files []discovery.Record) error {
	if !j.RemoveSources || p.cfg.DryRun {
		return nil
	}
	logger := ctxlog.FromContext(ctx)
	j.SetStatus(job.CleaningUp)

	removed := 0
	for _, file := range files {
		if err := p.fs.Remove(file.AbsPath); err != nil {
			logger.Warn("Failed to delete legacy file.", "file", file.LogicalPath, "error", err)
			j.RecordFileError()
		} else {
			removed++
		}
		if err := y.Yield(ctx); err != nil {
			return err
		}
	}
	logger.Info("🧹 Legacy sources removed.", "removed", removed, "total", len(files))
	return nil
}
