// Package testutil provides the shared harness for conversion tests: a
// tempdir tree builder, a scripted fake interpreter, a mutation-recording
// file system, and a standardized pipeline runner.
package testutil

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/convertkit/internal/ctxlog"
	"github.com/vk/convertkit/internal/fsio"
	"github.com/vk/convertkit/internal/interp"
	"github.com/vk/convertkit/internal/job"
	"github.com/vk/convertkit/internal/pipeline"
	"github.com/vk/convertkit/internal/report"
	"github.com/vk/convertkit/internal/sched"
	"github.com/vk/convertkit/internal/scriptdecl"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// WriteTree materializes the given relative-path -> content map under a
// fresh temporary root and returns the root.
func WriteTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

// Context returns a context carrying a debug logger writing into buf.
func Context(buf *SafeBuffer) context.Context {
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return ctxlog.WithLogger(context.Background(), logger)
}

// ConversionOptions tune a harness run. Zero values give a real interpreter
// on the real file system with pipeline defaults.
type ConversionOptions struct {
	RemoveSources bool
	Config        pipeline.Config
	Interp        interp.Interpreter
	FS            fsio.FS
	Reporter      report.Reporter
	Ctx           context.Context
}

// ConversionResult holds the outcomes of a harness run.
type ConversionResult struct {
	Job       *job.Job
	Err       error
	LogOutput string
	Root      string
}

// RunConversion executes one conversion job against root with the
// standardized wiring and returns its result.
func RunConversion(t *testing.T, root string, opts ConversionOptions) *ConversionResult {
	t.Helper()

	logBuffer := &SafeBuffer{}
	ctx := opts.Ctx
	if ctx == nil {
		ctx = Context(logBuffer)
	}

	fs := opts.FS
	if fs == nil {
		fs = fsio.NewOS()
	}
	in := opts.Interp
	if in == nil {
		in = scriptdecl.New(fs)
	}
	rep := opts.Reporter
	if rep == nil {
		rep = report.Noop{}
	}

	j := job.New(root, opts.RemoveSources)
	p := pipeline.New(fs, in, rep, opts.Config)

	err := sched.Run(ctx, func(ctx context.Context, y *sched.Yielder) error {
		return p.Run(ctx, y, j)
	})

	return &ConversionResult{
		Job:       j,
		Err:       err,
		LogOutput: logBuffer.String(),
		Root:      root,
	}
}
