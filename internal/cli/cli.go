package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/nodeflow/internal/app"
	"github.com/vk/nodeflow/internal/host"
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

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("nodeflow", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
nodeflow - Evaluate dataflow node graphs.

Usage:
  nodeflow [options] [GRAPH_PATH...]

Arguments:
  GRAPH_PATH
    Path to a graph document (.json). Several graphs run concurrently.

Options:
`)
		flagSet.PrintDefaults()
	}

	graphFlag := flagSet.String("graph", "", "Path to a graph document.")
	gFlag := flagSet.String("g", "", "Path to a graph document (shorthand).")
	manifestsFlag := flagSet.String("manifests", "", "Path to a directory or file of HCL node definitions.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	workersFlag := flagSet.Int("workers", 4, "Number of graphs evaluated concurrently.")
	logCapacityFlag := flagSet.Int("log-capacity", host.DefaultLogCapacity, "Number of host log lines retained.")
	nodeTimeoutFlag := flagSet.Duration("node-timeout", 0, "Deadline for a single node evaluation. 0 is disabled.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	var paths []string
	for _, p := range []string{*graphFlag, *gFlag} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	paths = append(paths, flagSet.Args()...)
	slog.Debug("Graph paths determined.", "paths", paths)

	if len(paths) == 0 {
		slog.Debug("No graph path provided, printing usage and exiting.")
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

	if *workersFlag < 1 {
		return nil, false, &ExitError{Code: 2, Message: "invalid workers: must be at least 1"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		GraphPaths:    paths,
		ManifestsPath: *manifestsFlag,
		LogFormat:     logFormat,
		LogLevel:      logLevel,
		WorkerCount:   *workersFlag,
		LogCapacity:   *logCapacityFlag,
		NodeTimeout:   *nodeTimeoutFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
