package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/vk/nodeflow/internal/ctxlog"
	"github.com/vk/nodeflow/internal/host"
	"github.com/zclconf/go-cty/cty"
	"go.uber.org/multierr"
)

// Executor computes the outputs of one node. It receives the host context,
// the node's opaque configuration payload and a value for every declared
// input pin, and returns values keyed by output pin id. A returned error
// aborts the whole run.
type Executor interface {
	Evaluate(ctx context.Context, hc *host.Context, data cty.Value, inputs map[string]cty.Value) (map[string]cty.Value, error)
}

// ExecutorFunc adapts a plain function to the Executor interface.
type ExecutorFunc func(ctx context.Context, hc *host.Context, data cty.Value, inputs map[string]cty.Value) (map[string]cty.Value, error)

// Evaluate calls f.
func (f ExecutorFunc) Evaluate(ctx context.Context, hc *host.Context, data cty.Value, inputs map[string]cty.Value) (map[string]cty.Value, error) {
	return f(ctx, hc, data, inputs)
}

// Module is the interface that all node modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds node definitions and executors for a single application
// instance.
type Registry struct {
	mu          sync.RWMutex
	definitions map[string]NodeDefinition
	executors   map[string]Executor
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		definitions: make(map[string]NodeDefinition),
		executors:   make(map[string]Executor),
	}
}

// WithModules creates a registry populated by the given modules, in order.
func WithModules(modules ...Module) *Registry {
	r := New()
	for _, m := range modules {
		if m == nil {
			panic("registry: nil module")
		}
		m.Register(r)
	}
	return r
}

// Register inserts def, replacing any definition with the same type id.
func (r *Registry) Register(def NodeDefinition) {
	if def.TypeID == "" {
		panic("registry: node definition with empty type id")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.definitions[def.TypeID] = def.clone()
}

// Get returns the definition registered for typeID. The returned pin slices
// must not be modified.
func (r *Registry) Get(typeID string) (NodeDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.definitions[typeID]
	return def, ok
}

// All returns every definition sorted by display name, then type id.
func (r *Registry) All() []NodeDefinition {
	r.mu.RLock()
	defs := make([]NodeDefinition, 0, len(r.definitions))
	for _, def := range r.definitions {
		defs = append(defs, def)
	}
	r.mu.RUnlock()

	sort.Slice(defs, func(i, j int) bool {
		if defs[i].DisplayName != defs[j].DisplayName {
			return defs[i].DisplayName < defs[j].DisplayName
		}
		return defs[i].TypeID < defs[j].TypeID
	})
	return defs
}

// RegisterExecutor binds exec to typeID, replacing any previous executor.
func (r *Registry) RegisterExecutor(typeID string, exec Executor) {
	if typeID == "" {
		panic("registry: executor with empty type id")
	}
	if exec == nil {
		panic(fmt.Sprintf("registry: nil executor for '%s'", typeID))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.executors[typeID] = exec
}

// Executor returns the executor registered for typeID.
func (r *Registry) Executor(typeID string) (Executor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exec, ok := r.executors[typeID]
	return exec, ok
}

// Check verifies that definitions and executors are consistent. Executors
// without a definition and definitions with duplicate pin ids are errors.
// Definitions without an executor are only logged, since graphs that never
// instantiate them still run.
func (r *Registry) Check(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	r.mu.RLock()
	defer r.mu.RUnlock()

	var err error
	for _, typeID := range sortedKeys(r.executors) {
		if _, ok := r.definitions[typeID]; !ok {
			err = multierr.Append(err, fmt.Errorf("executor for '%s' has no node definition", typeID))
		}
	}
	for _, typeID := range sortedKeys(r.definitions) {
		def := r.definitions[typeID]
		err = multierr.Append(err, duplicatePins(typeID, "input", def.Inputs))
		err = multierr.Append(err, duplicatePins(typeID, "output", def.Outputs))
		if _, ok := r.executors[typeID]; !ok {
			logger.Warn("Node type has no executor; graphs using it will fail to run.", "type_id", typeID)
		}
	}
	if err != nil {
		return fmt.Errorf("registry check failed: %w", err)
	}
	logger.Debug("Registry check passed.", "definitions", len(r.definitions), "executors", len(r.executors))
	return nil
}

func duplicatePins(typeID, side string, pins []PinDefinition) error {
	seen := make(map[string]struct{}, len(pins))
	var err error
	for _, p := range pins {
		if _, dup := seen[p.ID]; dup {
			err = multierr.Append(err, fmt.Errorf("node type '%s' declares %s pin '%s' more than once", typeID, side, p.ID))
		}
		seen[p.ID] = struct{}{}
	}
	return err
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
