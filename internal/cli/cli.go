// Package cli parses command-line arguments into an app.Config, layering
// flags over the optional convertkit.toml file.
package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/convertkit/internal/app"
	"github.com/vk/convertkit/internal/config"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config, a
// boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("convertkit", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
ConvertKit - Batch converter for legacy script-defined material files.

Usage:
  convertkit [options] [ROOT]

Arguments:
  ROOT
    Target directory tree containing legacy material definition files.

Options:
`)
		flagSet.PrintDefaults()
	}

	rootFlag := flagSet.String("root", "", "Target directory tree to convert.")
	rFlag := flagSet.String("r", "", "Target directory tree to convert (shorthand).")
	removeFlag := flagSet.Bool("remove-sources", false, "Delete original legacy files after successful conversion.")
	dryRunFlag := flagSet.Bool("dry-run", false, "Extract and verify only; skip flush, deletion and rename.")
	maxPassesFlag := flagSet.Int("max-passes", 0, "Cap on convergence re-scans. 0 uses the default.")
	classesFlag := flagSet.String("classes", "", "Comma-separated object classes to persist. Empty persists every class.")
	configFlag := flagSet.String("config", config.DefaultPath, "Path to the optional TOML config file.")
	reportURLFlag := flagSet.String("report-url", "", "socket.io endpoint for progress/result reporting. Empty is disabled.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health/progress server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	root := ""
	if *rootFlag != "" {
		root = *rootFlag
	} else if *rFlag != "" {
		root = *rFlag
	} else if flagSet.NArg() > 0 {
		root = flagSet.Arg(0)
	}
	slog.Debug("Target root determined.", "root", root)

	if root == "" {
		slog.Debug("No target root provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	fileCfg, err := config.Load(*configFlag)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	appCfg := app.Config{
		Root:            root,
		RemoveSources:   *removeFlag,
		DryRun:          *dryRunFlag,
		MaxPasses:       *maxPassesFlag,
		ReportURL:       *reportURLFlag,
		HealthcheckPort: *healthPortFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
	}
	if *classesFlag != "" {
		appCfg.Classes = splitList(*classesFlag)
	}
	appCfg = mergeFileConfig(appCfg, fileCfg)

	cfg, err := app.NewConfig(appCfg)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", cfg)
	return cfg, false, nil
}

// mergeFileConfig fills fields the flags left unset from the config file.
func mergeFileConfig(cfg app.Config, file *config.File) app.Config {
	if file == nil {
		return cfg
	}
	if len(cfg.Patterns) == 0 {
		cfg.Patterns = file.Patterns
	}
	if len(cfg.Classes) == 0 {
		cfg.Classes = file.Classes
	}
	if cfg.MaxPasses == 0 {
		cfg.MaxPasses = file.MaxPasses
	}
	if cfg.ReportURL == "" {
		cfg.ReportURL = file.ReportURL
	}
	return cfg
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
