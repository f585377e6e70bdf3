package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"github.com/vk/nodeflow/internal/ctxlog"
	"github.com/vk/nodeflow/internal/engine"
	"github.com/vk/nodeflow/internal/graph"
	"github.com/vk/nodeflow/internal/host"
	"github.com/vk/nodeflow/internal/manifest"
	"github.com/vk/nodeflow/internal/registry"
	"github.com/vk/nodeflow/internal/value"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	engine *engine.Engine
	log    *host.LogBuffer
}

// NewApp is the constructor for the main application. It builds an isolated
// logger, populates the registry from modules (the core modules when none
// are given) and from the configured manifests, and checks the result. cfg
// goes through NewConfig, so a hand-built Config gets the same defaults.
func NewApp(outW io.Writer, cfg *Config, modules ...registry.Module) (*App, error) {
	if cfg == nil {
		return nil, errors.New("app config is required")
	}
	cfg, err := NewConfig(*cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid app config: %w", err)
	}

	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	if len(modules) == 0 {
		modules = coreModules
	}
	reg := registry.WithModules(modules...)
	logger.Debug("All Go modules registered.", "count", len(modules))

	if cfg.ManifestsPath != "" {
		if _, err := manifest.LoadInto(ctx, reg, cfg.ManifestsPath); err != nil {
			return nil, fmt.Errorf("failed to load manifests: %w", err)
		}
	}

	if err := reg.Check(ctx); err != nil {
		return nil, err
	}
	logger.Debug("Registry check passed.")

	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		engine: engine.New(reg, engine.WithNodeTimeout(cfg.NodeTimeout)),
		log:    host.NewLogBuffer(cfg.LogCapacity),
	}, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.engine.Registry()
}

// Log returns the host log shared by all runs of this app.
func (a *App) Log() *host.LogBuffer {
	return a.log
}

// Report is the outcome of evaluating one graph document.
type Report struct {
	Path   string
	Graph  *graph.Graph
	Result *engine.Result
	Err    error
}

// RunGraphs loads and evaluates every configured graph, at most WorkerCount
// at a time. Each run gets its own host context; all of them append to the
// app's shared log. Reports are returned in configuration order; the error
// aggregates every failed run.
func (a *App) RunGraphs(ctx context.Context) ([]Report, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	reports := make([]Report, len(a.config.GraphPaths))

	var grp errgroup.Group
	grp.SetLimit(a.config.WorkerCount)
	for i, path := range a.config.GraphPaths {
		grp.Go(func() error {
			reports[i] = a.runGraph(ctx, path)
			return nil
		})
	}
	_ = grp.Wait()

	var err error
	for _, r := range reports {
		if r.Err != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", r.Path, r.Err))
		}
	}
	return reports, err
}

func (a *App) runGraph(ctx context.Context, path string) Report {
	ctx, logger := ctxlog.With(ctx, "graph", path)
	report := Report{Path: path}

	g, err := graph.LoadFile(path)
	if err != nil {
		logger.Error("Failed to load graph document.", "error", err)
		report.Err = err
		return report
	}
	report.Graph = g

	hc := host.New(a.log)
	hc.Fields["graph_path"] = path

	logger.Info("Running graph.", "nodes", len(g.Nodes), "edges", len(g.Edges))
	res, err := a.engine.Run(ctx, g, hc)
	if err != nil {
		logger.Error("Graph run failed.", "error", err)
		report.Err = err
		return report
	}
	logger.Info("Graph run finished.", "values", res.Values.Len())
	report.Result = res
	return report
}

// Run evaluates all graphs and prints their value tables followed by the
// shared host log.
func (a *App) Run(ctx context.Context) error {
	a.logger.Debug("App.Run method started.")
	reports, err := a.RunGraphs(ctx)

	for _, r := range reports {
		a.printReport(r)
	}
	fmt.Fprintln(a.outW, "-- log --")
	for _, line := range a.log.Snapshot() {
		fmt.Fprintln(a.outW, line)
	}

	a.logger.Debug("App.Run method finished.")
	if err != nil {
		return fmt.Errorf("graph run failed: %w", err)
	}
	return nil
}

func (a *App) printReport(r Report) {
	name := filepath.Base(r.Path)
	if r.Err != nil {
		fmt.Fprintf(a.outW, "== %s: error: %v\n", name, r.Err)
		return
	}
	fmt.Fprintf(a.outW, "== %s: ok (%d nodes)\n", name, len(r.Result.Order))

	// Group values by node in schedule order so output is stable.
	for _, id := range r.Result.Order {
		outputs := r.Result.Values.Outputs(id)
		pins := make([]string, 0, len(outputs))
		for pin := range outputs {
			pins = append(pins, pin)
		}
		sort.Strings(pins)
		for _, pin := range pins {
			fmt.Fprintf(a.outW, "  %s.%s = %s\n", shortID(id), pin, value.Format(outputs[pin]))
		}
	}
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}
