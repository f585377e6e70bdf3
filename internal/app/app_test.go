package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/nodeflow/internal/graph"
	"github.com/vk/nodeflow/internal/registry"
	"github.com/vk/nodeflow/modules/conststring"
	"github.com/vk/nodeflow/modules/print"
	"github.com/vk/nodeflow/modules/town"
	"github.com/zclconf/go-cty/cty"
)

// writeGraph saves g under dir and returns its path.
func writeGraph(t *testing.T, dir, name string, g *graph.Graph) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, graph.SaveFile(path, g))
	return path
}

func helloGraph(msg string) *graph.Graph {
	g := graph.Empty()
	c := g.AddNode(conststring.TypeID, cty.ObjectVal(map[string]cty.Value{"value": cty.StringVal(msg)}))
	p := g.AddNode(print.TypeID, cty.NilVal)
	g.Connect(c, "value", p, "msg")
	return g
}

func newTestApp(t *testing.T, out *bytes.Buffer, cfg Config, modules ...registry.Module) *App {
	t.Helper()
	if cfg.LogLevel == "" {
		cfg.LogLevel = "error"
	}
	validated, err := NewConfig(cfg)
	require.NoError(t, err)
	a, err := NewApp(out, validated, modules...)
	require.NoError(t, err)
	return a
}

func TestNewApp_RegistersCoreModules(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	a := newTestApp(t, &out, Config{GraphPaths: []string{"unused.json"}})

	for _, typeID := range []string{print.TypeID, conststring.TypeID, town.TypeID} {
		_, ok := a.Registry().Get(typeID)
		assert.True(t, ok, "missing definition for %s", typeID)
		_, ok = a.Registry().Executor(typeID)
		assert.True(t, ok, "missing executor for %s", typeID)
	}
	assert.Len(t, CoreModules(), 3)
}

func TestNewApp_Manifests(t *testing.T) {
	t.Parallel()

	t.Run("manifest definitions are registered", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "print.hcl"), []byte(`node "core.print" { display_name = "Console" }`), 0o600))

		var out bytes.Buffer
		a := newTestApp(t, &out, Config{GraphPaths: []string{"unused.json"}, ManifestsPath: dir})

		def, ok := a.Registry().Get(print.TypeID)
		require.True(t, ok)
		assert.Equal(t, "Console", def.DisplayName)
	})

	t.Run("broken manifest fails startup", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.hcl"), []byte(`node "x" {`), 0o600))

		cfg, err := NewConfig(Config{GraphPaths: []string{"unused.json"}, ManifestsPath: dir, LogLevel: "error"})
		require.NoError(t, err)
		_, err = NewApp(&bytes.Buffer{}, cfg)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load manifests")
	})
}

func TestRunGraphs_SharedLog(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	var paths []string
	for _, msg := range []string{"one", "two", "three", "four"} {
		paths = append(paths, writeGraph(t, dir, msg+".json", helloGraph(msg)))
	}
	var out bytes.Buffer
	a := newTestApp(t, &out, Config{GraphPaths: paths, WorkerCount: 4})

	// --- Act ---
	reports, err := a.RunGraphs(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	require.Len(t, reports, 4)
	for i, r := range reports {
		assert.Equal(t, paths[i], r.Path, "reports keep configuration order")
		require.NoError(t, r.Err)
		assert.Len(t, r.Result.Order, 2)
	}

	lines := a.Log().Snapshot()
	sort.Strings(lines)
	assert.Equal(t, []string{"[Print] four", "[Print] one", "[Print] three", "[Print] two"}, lines)
}

func TestRunGraphs_FailuresAreAggregated(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	good := writeGraph(t, dir, "good.json", helloGraph("fine"))

	bad := graph.Empty()
	bad.AddNode("missing.type", cty.NilVal)
	badPath := writeGraph(t, dir, "bad.json", bad)
	missing := filepath.Join(dir, "absent.json")

	var out bytes.Buffer
	a := newTestApp(t, &out, Config{GraphPaths: []string{good, badPath, missing}, WorkerCount: 2})

	// --- Act ---
	reports, err := a.RunGraphs(context.Background())

	// --- Assert ---
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.json")
	assert.Contains(t, err.Error(), "absent.json")
	require.Len(t, reports, 3)
	assert.NoError(t, reports[0].Err)
	assert.Error(t, reports[1].Err)
	assert.NotNil(t, reports[1].Graph, "decoded graph is kept for failed runs")
	assert.Error(t, reports[2].Err)
	assert.Nil(t, reports[2].Graph)
	assert.Equal(t, []string{"[Print] fine"}, a.Log().Snapshot())
}

func TestRun_PrintsReport(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	g := graph.Empty()
	g.AddNode(town.TypeID, cty.NilVal)
	path := writeGraph(t, dir, "town.json", g)

	var out bytes.Buffer
	a := newTestApp(t, &out, Config{GraphPaths: []string{path}})

	// --- Act ---
	err := a.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	text := out.String()
	assert.Contains(t, text, "== town.json: ok (1 nodes)")
	assert.Contains(t, text, `.town = {"lots":[{"h":2,"w":3,"x":2,"y":1}],"mode":"2d","roads":[{"x1":0,"x2":10,"y1":0,"y2":0}],"seed":1}`)
	assert.True(t, strings.HasSuffix(text, "-- log --\n[Town] Generated stub town (mode=2d, seed=1)\n"))
}

func TestRun_ReportsErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	g := graph.Empty()
	g.AddNode("missing.type", cty.NilVal)
	path := writeGraph(t, dir, "broken.json", g)

	var out bytes.Buffer
	a := newTestApp(t, &out, Config{GraphPaths: []string{path}})

	err := a.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "graph run failed")
	assert.Contains(t, out.String(), "== broken.json: error: unknown node type: missing.type")
}

func TestNewApp_UnvalidatedConfig(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// A Config built by hand skips NewConfig; WorkerCount is left at zero.
	path := writeGraph(t, t.TempDir(), "a.json", helloGraph("direct"))
	var out bytes.Buffer
	a, err := NewApp(&out, &Config{GraphPaths: []string{path}, LogLevel: "error"})
	require.NoError(t, err)

	// --- Act ---
	done := make(chan error, 1)
	go func() {
		_, err := a.RunGraphs(context.Background())
		done <- err
	}()

	// --- Assert ---
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("RunGraphs did not return for a config with zero workers")
	}
	assert.Equal(t, []string{"[Print] direct"}, a.Log().Snapshot())
}

func TestNewApp_InvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := NewApp(&bytes.Buffer{}, &Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one graph path is required")

	_, err = NewApp(&bytes.Buffer{}, nil)
	require.Error(t, err)
}
