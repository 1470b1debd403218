// Package app encapsulates the application's dependencies, configuration
// and lifecycle: it wires the file system, the interpreter, the reporter
// and the pipeline together and drives one conversion job.
package app

import (
	"io"
	"log/slog"

	"github.com/vk/convertkit/internal/fsio"
	"github.com/vk/convertkit/internal/interp"
	"github.com/vk/convertkit/internal/job"
	"github.com/vk/convertkit/internal/rootlock"
	"github.com/vk/convertkit/internal/scriptdecl"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	config  *Config
	fs      fsio.FS
	interp  interp.Interpreter
	locker  *rootlock.Locker
	current *job.Job
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger. A nil interpreter
// selects the in-tree declaration interpreter; tests inject fakes.
func NewApp(outW io.Writer, cfg *Config, in interp.Interpreter) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	fs := fsio.NewOS()
	if in == nil {
		in = scriptdecl.New(fs)
		logger.Debug("Using in-tree declaration interpreter.")
	}

	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		fs:     fs,
		interp: in,
		locker: rootlock.New(),
	}
}
