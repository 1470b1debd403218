package pipeline

import (
	"context"
	"path/filepath"

	"github.com/vk/convertkit/internal/ctxlog"
	"github.com/vk/convertkit/internal/job"
	"github.com/vk/convertkit/internal/pathspec"
	"github.com/vk/convertkit/internal/sched"
)

// normalize renames every freshly produced output file to the canonical
// converted name, so later discovery passes never reprocess converted
// trees. Each rename is one atomic filesystem operation; a failed rename is
// logged and counted, never fatal. The accumulated rename records are
// written to the audit file at the target root.
func (p *Pipeline) normalize(ctx context.Context, y *sched.Yielder, j *job.Job, root pathspec.Root) error {
	logger := ctxlog.FromContext(ctx)
	j.SetStatus(job.Normalizing)

	outputs, err := p.outputFiles(root)
	if err != nil {
		return err
	}

	for i, outPath := range outputs {
		converted := filepath.Join(filepath.Dir(outPath), p.cfg.ConvertedName)
		if p.cfg.DryRun {
			logger.Info("Dry run: would rename output.", "from", pathspec.Logical(outPath), "to", pathspec.Logical(converted))
		} else if err := p.fs.Rename(outPath, converted); err != nil {
			logger.Warn("Failed to rename output.", "from", outPath, "error", err)
			j.RecordFileError()
		} else {
			j.RecordRename(pathspec.Logical(outPath), pathspec.Logical(converted))
		}

		j.SetProgress(80 + (19*(i+1))/len(outputs))
		p.report(j)
		if err := y.Yield(ctx); err != nil {
			return err
		}
	}

	renames := j.Renames()
	if len(renames) > 0 {
		auditPath := filepath.Join(root.Abs, p.cfg.AuditName)
		if err := writeAudit(p.fs, auditPath, renames); err != nil {
			// The audit is advisory next to the renames themselves; losing
			// it is logged loudly but does not undo a finished conversion.
			logger.Error("Failed to write audit file.", "path", auditPath, "error", err)
			j.RecordFileError()
		} else {
			logger.Info("📋 Audit written.", "path", pathspec.Logical(auditPath), "renames", len(renames))
		}
	}
	return nil
}

// outputFiles locates files still carrying the pre-rename output name.
func (p *Pipeline) outputFiles(root pathspec.Root) ([]string, error) {
	return outputSearch(p.fs, root.Abs, p.cfg.OutputName)
}
