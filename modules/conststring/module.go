package conststring

import (
	"context"

	"github.com/vk/nodeflow/internal/host"
	"github.com/vk/nodeflow/internal/registry"
	"github.com/vk/nodeflow/internal/value"
	"github.com/zclconf/go-cty/cty"
)

// TypeID is the node type handled by this module.
const TypeID = "core.const_string"

// DefaultValue is emitted when the node configuration has no string value.
const DefaultValue = "Hello"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Definition declares no inputs and one string output, value.
func Definition() registry.NodeDefinition {
	return registry.NodeDefinition{
		TypeID:      TypeID,
		DisplayName: "Const String",
		Outputs: []registry.PinDefinition{
			{ID: "value", Name: "Value", Type: registry.TypeString},
		},
	}
}

// OnEvaluateConstString emits the "value" field of the node configuration.
func OnEvaluateConstString(_ context.Context, _ *host.Context, data cty.Value, _ map[string]cty.Value) (map[string]cty.Value, error) {
	s, ok := value.String(value.Attr(data, "value"))
	if !ok {
		s = DefaultValue
	}
	return map[string]cty.Value{"value": cty.StringVal(s)}, nil
}

// Register registers the definition and its executor.
func (m *Module) Register(r *registry.Registry) {
	r.Register(Definition())
	r.RegisterExecutor(TypeID, registry.ExecutorFunc(OnEvaluateConstString))
}
