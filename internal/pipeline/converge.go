package pipeline

import (
	"context"

	"github.com/vk/convertkit/internal/ctxlog"
	"github.com/vk/convertkit/internal/discovery"
	"github.com/vk/convertkit/internal/job"
	"github.com/vk/convertkit/internal/pathspec"
	"github.com/vk/convertkit/internal/persist"
	"github.com/vk/convertkit/internal/sched"
)

// convState is the convergence controller's state machine position.
type convState int

const (
	scanning convState = iota
	extractingPass
	verifyingPass
	converged
	nonConvergent
)

// converge runs the discovery+extraction+persist cycle until a verification
// scan of the full file set yields zero live objects, or the pass cap is
// exceeded. It returns the most recent discovery set so cleanup can work on
// exactly the files that were converged.
func (p *Pipeline) converge(ctx context.Context, y *sched.Yielder, j *job.Job, root pathspec.Root) ([]discovery.Record, job.Outcome, error) {
	logger := ctxlog.FromContext(ctx)

	var files []discovery.Record
	state := scanning
	pass := 0

	for {
		switch state {
		case scanning:
			pass++
			if pass > p.cfg.MaxPasses {
				state = nonConvergent
				continue
			}
			j.SetStatus(job.Discovering)
			logger.Debug("Scanning for legacy definition files.", "pass", pass)

			// Files are re-derived every pass: deletions and renames can
			// change the set between passes.
			var err error
			files, err = p.discover(root)
			if err != nil {
				return nil, job.OutcomeNone, err
			}
			if pass == 1 {
				j.SetProgress(25)
				p.report(j)
			}
			logger.Info("🔍 Discovery complete.", "pass", pass, "files", len(files))

			if len(files) == 0 && pass == 1 {
				// No legacy files at all is success, not failure.
				state = converged
				continue
			}
			state = extractingPass

		case extractingPass:
			j.SetStatus(job.Extracting)
			if err := p.extractPass(ctx, y, j, files, pass == 1); err != nil {
				return nil, job.OutcomeNone, err
			}
			state = verifyingPass

		case verifyingPass:
			j.SetStatus(job.Converging)
			dirty, err := p.verifyPass(ctx, y, j, files)
			if err != nil {
				return nil, job.OutcomeNone, err
			}
			if dirty {
				// Residual live objects after flush+destroy force a full
				// restart; this re-scan is the convergence mechanism, not
				// an error.
				logger.Warn("Verification found residual live objects, repeating full scan.", "pass", pass)
				state = scanning
				continue
			}
			state = converged

		case converged:
			logger.Info("✅ Converged.", "passes", pass)
			return files, job.Success, nil

		case nonConvergent:
			return files, job.NonConvergent, nil
		}
	}
}

// extractPass executes every discovered file, stages each live object, and
// destroys it immediately after staging. Destroying per object bounds
// interpreter memory and guarantees no extracted object outlives the pass.
// The session is flushed once after the full file set and always closed.
func (p *Pipeline) extractPass(ctx context.Context, y *sched.Yielder, j *job.Job, files []discovery.Record, firstPass bool) (err error) {
	logger := ctxlog.FromContext(ctx)

	session := persist.NewSession(p.fs, p.cfg.OutputName)
	defer session.Close(ctx)

	for i, file := range files {
		// One suspension per file regardless of outcome: skipped and failed
		// files must not let the loop spin without a yield point.
		if err := y.Yield(ctx); err != nil {
			return err
		}

		if file.Size == 0 {
			// A zero-byte file is a no-op, not an error: it contributes no
			// objects and is never handed to the interpreter.
			logger.Debug("Skipping empty file.", "file", file.LogicalPath)
			continue
		}

		if execErr := p.interp.Execute(ctx, file.AbsPath); execErr != nil {
			logger.Warn("Failed to execute legacy file, skipping.", "file", file.LogicalPath, "error", execErr)
			j.RecordFileError()
			continue
		}

		for _, obj := range p.interp.LiveObjects(ctx, file.AbsPath) {
			if p.wantClass(obj.Class) {
				session.MarkDirty(ctx, obj)
			} else {
				logger.Debug("Skipping object of filtered class.", "class", obj.Class, "name", obj.Name)
			}
			p.interp.Destroy(ctx, obj)

			if err := y.Yield(ctx); err != nil {
				return err
			}
		}

		// Only the first pass drives the progress band; retries stay inside
		// the headroom reserved for them.
		if firstPass {
			j.SetProgress(25 + (45*(i+1))/len(files))
			p.report(j)
		}
	}

	if p.cfg.DryRun {
		logger.Info("Dry run: skipping flush.")
		return nil
	}
	return session.Flush(ctx)
}

// verifyPass re-executes every non-empty file and reports whether any still
// yields a live object. Residuals are left alive on purpose: the next
// extraction pass is what stages and destroys them.
func (p *Pipeline) verifyPass(ctx context.Context, y *sched.Yielder, j *job.Job, files []discovery.Record) (bool, error) {
	logger := ctxlog.FromContext(ctx)
	dirty := false

	for _, file := range files {
		if file.Size > 0 {
			if execErr := p.interp.Execute(ctx, file.AbsPath); execErr != nil {
				j.RecordFileError()
			}
			if live := p.interp.LiveObjects(ctx, file.AbsPath); len(live) > 0 {
				logger.Debug("File still yields live objects.", "file", file.LogicalPath, "objects", len(live))
				dirty = true
			}
		}
		if err := y.Yield(ctx); err != nil {
			return false, err
		}
	}
	return dirty, nil
}
