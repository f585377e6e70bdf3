package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/vk/nodeflow/internal/ctxlog"
	"github.com/vk/nodeflow/internal/graph"
	"github.com/vk/nodeflow/internal/host"
	"github.com/vk/nodeflow/internal/registry"
	"github.com/vk/nodeflow/internal/validate"
	"github.com/vk/nodeflow/internal/value"
	"github.com/zclconf/go-cty/cty"
)

// Engine evaluates graphs against one registry.
type Engine struct {
	registry    *registry.Registry
	nodeTimeout time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithNodeTimeout bounds the time a single executor may take. The executor
// receives a context with that deadline; a node that returns after the
// deadline fails the run even if it reported success. Zero disables it.
func WithNodeTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.nodeTimeout = d
	}
}

// New creates an engine reading definitions and executors from reg.
func New(reg *registry.Registry, opts ...Option) *Engine {
	e := &Engine{registry: reg}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the registry the engine evaluates against.
func (e *Engine) Registry() *registry.Registry {
	return e.registry
}

// Result is the outcome of a successful run.
type Result struct {
	// Order is the evaluation schedule, one entry per node.
	Order []uuid.UUID
	// Values holds every output committed during the run.
	Values *Values
}

// Run validates g and evaluates every node in schedule order. A nil host
// context gets a private one.
func (e *Engine) Run(ctx context.Context, g *graph.Graph, hc *host.Context) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	if hc == nil {
		hc = host.New(nil)
	}

	if err := validate.Validate(g, e.registry); err != nil {
		logger.Debug("Graph failed validation.", "error", err)
		return nil, err
	}

	order := g.TopologicalOrder()
	index := g.Index()
	incoming := g.Incoming()
	values := newValues()
	logger.Debug("Evaluation schedule computed.", "nodes", len(order), "edges", len(g.Edges))

	for step, id := range order {
		node := &g.Nodes[index[id]]
		if err := ctx.Err(); err != nil {
			return nil, &RunError{Err: ErrCanceled, NodeID: id, TypeID: node.TypeID, Message: err.Error(), cause: err}
		}

		nodeCtx, nodeLogger := ctxlog.With(ctx, "node_id", id, "type_id", node.TypeID, "step", step)

		// Validation guarantees the definition exists.
		def, _ := e.registry.Get(node.TypeID)
		exec, ok := e.registry.Executor(node.TypeID)
		if !ok {
			nodeLogger.Error("No executor registered for node type.")
			return nil, &RunError{Err: ErrMissingExecutor, NodeID: id, TypeID: node.TypeID}
		}

		inputs := bindInputs(def, incoming[id], values)
		nodeLogger.Debug("Evaluating node.", "inputs", len(inputs))

		outputs, err := e.evaluate(nodeCtx, exec, hc, node, inputs)
		if err != nil {
			nodeLogger.Error("Node evaluation failed.", "error", err)
			return nil, &RunError{Err: ErrExec, NodeID: id, TypeID: node.TypeID, Message: err.Error(), cause: err}
		}

		for _, pin := range sortedPins(outputs) {
			if _, declared := def.Output(pin); !declared {
				nodeLogger.Warn("Executor returned an undeclared output pin.", "pin", pin)
			}
			values.set(Key{Node: id, Pin: pin}, outputs[pin])
		}
		nodeLogger.Debug("Node evaluated.", "outputs", len(outputs))
	}

	logger.Debug("Graph evaluated.", "nodes", len(order), "values", values.Len())
	return &Result{Order: order, Values: values}, nil
}

// bindInputs binds every declared input. When several edges target the
// same pin the last one wins.
func bindInputs(def registry.NodeDefinition, edges []graph.Edge, values *Values) map[string]cty.Value {
	inputs := make(map[string]cty.Value, len(def.Inputs))
	for _, pin := range def.Inputs {
		inputs[pin.ID] = value.Null
	}
	for _, edge := range edges {
		if _, declared := inputs[edge.DstPin]; !declared {
			continue
		}
		if v, ok := values.Get(edge.Src, edge.SrcPin); ok {
			inputs[edge.DstPin] = v
		}
	}
	return inputs
}

// evaluate invokes one executor, turning panics and overrun deadlines into
// errors.
func (e *Engine) evaluate(ctx context.Context, exec registry.Executor, hc *host.Context, node *graph.NodeInstance, inputs map[string]cty.Value) (outputs map[string]cty.Value, err error) {
	if e.nodeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.nodeTimeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			outputs, err = nil, fmt.Errorf("executor panicked: %v", r)
		}
	}()

	data := node.Data
	if data == cty.NilVal {
		data = value.Null
	}

	outputs, err = exec.Evaluate(ctx, hc, data, inputs)
	if err != nil {
		return nil, err
	}
	if e.nodeTimeout > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, fmt.Errorf("node exceeded timeout of %s: %w", e.nodeTimeout, ctx.Err())
	}
	return outputs, nil
}

func sortedPins(outputs map[string]cty.Value) []string {
	pins := make([]string, 0, len(outputs))
	for pin := range outputs {
		pins = append(pins, pin)
	}
	sort.Strings(pins)
	return pins
}
