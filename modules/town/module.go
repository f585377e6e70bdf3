package town

import (
	"context"
	"fmt"

	"github.com/vk/nodeflow/internal/ctxlog"
	"github.com/vk/nodeflow/internal/host"
	"github.com/vk/nodeflow/internal/registry"
	"github.com/vk/nodeflow/internal/towngen"
	"github.com/vk/nodeflow/internal/value"
	"github.com/zclconf/go-cty/cty"
)

// TypeID is the node type handled by this module.
const TypeID = "town.generate"

const (
	DefaultSeed int64 = 1
	DefaultMode       = towngen.Mode2D
)

// Module implements the registry.Module interface for this package.
// Generator defaults to towngen.Stub.
type Module struct {
	Generator towngen.Generator
}

// Definition declares the seed and mode inputs and the structured town output.
func Definition() registry.NodeDefinition {
	return registry.NodeDefinition{
		TypeID:      TypeID,
		DisplayName: "Generate Town",
		Inputs: []registry.PinDefinition{
			{ID: "seed", Name: "Seed", Type: registry.TypeInt},
			{ID: "mode", Name: "Mode", Type: registry.TypeString},
		},
		Outputs: []registry.PinDefinition{
			{ID: "town", Name: "Town", Type: registry.TypeJSON},
		},
	}
}

type executor struct {
	gen towngen.Generator
}

// Evaluate reads seed and mode from the inputs, falling back to the
// defaults for missing values and for modes other than 2d and 3d, and emits
// the generated town.
func (e *executor) Evaluate(ctx context.Context, hc *host.Context, _ cty.Value, inputs map[string]cty.Value) (map[string]cty.Value, error) {
	seed, ok := value.Int(inputs["seed"])
	if !ok {
		seed = DefaultSeed
	}
	mode, ok := value.String(inputs["mode"])
	if !ok {
		mode = DefaultMode
	}
	switch mode {
	case towngen.Mode2D, towngen.Mode3D:
	default:
		ctxlog.FromContext(ctx).Warn("Unknown town mode, using the default.", "mode", mode, "default", DefaultMode)
		mode = DefaultMode
	}

	town, err := e.gen.Generate(ctx, towngen.Request{Seed: seed, Mode: mode})
	if err != nil {
		return nil, fmt.Errorf("generate town: %w", err)
	}
	payload, err := value.FromGo(*town)
	if err != nil {
		return nil, fmt.Errorf("encode town: %w", err)
	}

	ctxlog.FromContext(ctx).Debug("Town generated.", "seed", seed, "mode", mode, "roads", len(town.Roads), "lots", len(town.Lots))
	hc.Logf("[Town] Generated %s town (mode=%s, seed=%d)", town.Source, mode, seed)
	return map[string]cty.Value{"town": payload}, nil
}

// Register registers the definition and its executor.
func (m *Module) Register(r *registry.Registry) {
	gen := m.Generator
	if gen == nil {
		gen = towngen.Stub{}
	}
	r.Register(Definition())
	r.RegisterExecutor(TypeID, &executor{gen: gen})
}
