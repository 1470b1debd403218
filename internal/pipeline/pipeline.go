package pipeline

import (
	"context"
	"errors"

	"github.com/vk/convertkit/internal/ctxlog"
	"github.com/vk/convertkit/internal/discovery"
	"github.com/vk/convertkit/internal/fsio"
	"github.com/vk/convertkit/internal/interp"
	"github.com/vk/convertkit/internal/job"
	"github.com/vk/convertkit/internal/pathspec"
	"github.com/vk/convertkit/internal/report"
	"github.com/vk/convertkit/internal/sched"
)

// Config carries the pipeline's tunables. The zero value is completed by
// withDefaults; only deviations need to be set.
type Config struct {
	// Patterns are the legacy definition filename globs to discover.
	Patterns []string

	// Classes restricts which object classes are staged for persistence.
	// Empty means pass-through: every class a legacy file declares is
	// persisted, matching the legacy converter's accept-all behavior.
	Classes []string

	// OutputName is the fixed filename the session flushes into each
	// originating directory.
	OutputName string

	// ConvertedName is the canonical name outputs are renamed to.
	ConvertedName string

	// ConvertedPrefix marks already-converted files; discovery skips them.
	ConvertedPrefix string

	// AuditName is the audit file written at the target root.
	AuditName string

	// MaxPasses caps the convergence re-scan loop. The legacy behavior had
	// no cap; exceeding this one yields a NonConvergent outcome instead of
	// looping forever.
	MaxPasses int

	// DryRun extracts and verifies but skips flush, deletion and rename.
	DryRun bool
}

// Default filenames of the material conversion domain.
const (
	DefaultOutputName      = "main.materials.json"
	DefaultConvertedName   = "ckconverted.materials.json"
	DefaultConvertedPrefix = "ckconverted."
	DefaultAuditName       = "ckconverted.audit.csv"
	DefaultMaxPasses       = 5
)

// DefaultPatterns match the canonical legacy material filename and its
// per-asset variants.
func DefaultPatterns() []string {
	return []string{"materials.cs", "*.materials.cs"}
}

func (c Config) withDefaults() Config {
	if len(c.Patterns) == 0 {
		c.Patterns = DefaultPatterns()
	}
	if c.OutputName == "" {
		c.OutputName = DefaultOutputName
	}
	if c.ConvertedName == "" {
		c.ConvertedName = DefaultConvertedName
	}
	if c.ConvertedPrefix == "" {
		c.ConvertedPrefix = DefaultConvertedPrefix
	}
	if c.AuditName == "" {
		c.AuditName = DefaultAuditName
	}
	if c.MaxPasses <= 0 {
		c.MaxPasses = DefaultMaxPasses
	}
	return c
}

// Pipeline converts one target root. It is safe to reuse for sequential
// jobs; concurrent jobs are serialized by the caller through rootlock.
type Pipeline struct {
	fs       fsio.FS
	interp   interp.Interpreter
	reporter report.Reporter
	cfg      Config

	classSet map[string]struct{}
}

// New wires a pipeline from its collaborators.
func New(fs fsio.FS, in interp.Interpreter, rep report.Reporter, cfg Config) *Pipeline {
	cfg = cfg.withDefaults()
	p := &Pipeline{fs: fs, interp: in, reporter: rep, cfg: cfg}
	if len(cfg.Classes) > 0 {
		p.classSet = make(map[string]struct{}, len(cfg.Classes))
		for _, class := range cfg.Classes {
			p.classSet[class] = struct{}{}
		}
	}
	return p
}

// Run executes the job. Per-file failures are absorbed and counted; only
// path validation errors, non-convergence and cancellation surface as a
// non-Success terminal state. The returned error is non-nil only for
// cancellation or an unrecoverable file system fault.
func (p *Pipeline) Run(ctx context.Context, y *sched.Yielder, j *job.Job) error {
	logger := ctxlog.FromContext(ctx).With("root", j.TargetRoot)
	ctx = ctxlog.WithLogger(ctx, logger)

	// Path validation happens before any side effect; a bad root fails the
	// job with nothing touched.
	j.SetProgress(0)
	root, err := pathspec.Normalize(p.fs, j.TargetRoot)
	if err != nil {
		outcome := job.PathMissing
		if errors.Is(err, pathspec.ErrPathInvalid) {
			outcome = job.PathInvalid
		}
		logger.Error("Target root rejected.", "error", err)
		j.Finish(outcome)
		return nil
	}
	j.SetProgress(5)
	p.report(j)

	logger.Info("🔄 Conversion started.", "logical_root", root.Logical, "remove_sources", j.RemoveSources, "dry_run", p.cfg.DryRun)

	files, outcome, err := p.converge(ctx, y, j, root)
	if err != nil {
		j.SetStatus(job.Failed)
		return err
	}
	if outcome != job.Success {
		j.Finish(outcome)
		logger.Warn("Conversion did not converge.", "passes", p.cfg.MaxPasses)
		return nil
	}
	j.SetProgress(75)
	p.report(j)

	if err := p.cleanup(ctx, y, j, files); err != nil {
		j.SetStatus(job.Failed)
		return err
	}
	j.SetProgress(80)
	p.report(j)

	if err := p.normalize(ctx, y, j, root); err != nil {
		j.SetStatus(job.Failed)
		return err
	}

	j.Finish(job.Success)
	p.report(j)
	logger.Info("🏁 Conversion finished.", "renames", len(j.Renames()), "file_errors", j.FileErrors())
	return nil
}

// report pushes the job's current progress to the reporting collaborator.
func (p *Pipeline) report(j *job.Job) {
	if pct, active := j.Progress(); active {
		p.reporter.Progress(pct, j.Status().String())
	}
}

// wantClass reports whether an object of the given class is staged for
// persistence under the configured filter.
func (p *Pipeline) wantClass(class string) bool {
	if p.classSet == nil {
		return true
	}
	_, ok := p.classSet[class]
	return ok
}

// discover runs one file discovery scan for the configured patterns.
func (p *Pipeline) discover(root pathspec.Root) ([]discovery.Record, error) {
	return discovery.Discover(p.fs, root.Abs, p.cfg.Patterns, p.cfg.ConvertedPrefix)
}
