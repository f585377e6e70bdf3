package print

import (
	"context"

	"github.com/vk/nodeflow/internal/ctxlog"
	"github.com/vk/nodeflow/internal/host"
	"github.com/vk/nodeflow/internal/registry"
	"github.com/vk/nodeflow/internal/value"
	"github.com/zclconf/go-cty/cty"
)

// TypeID is the node type handled by this module.
const TypeID = "core.print"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Definition declares one string input, msg, and no outputs.
func Definition() registry.NodeDefinition {
	return registry.NodeDefinition{
		TypeID:      TypeID,
		DisplayName: "Print",
		Inputs: []registry.PinDefinition{
			{ID: "msg", Name: "Message", Type: registry.TypeString},
		},
	}
}

// OnEvaluatePrint writes the message to the host log. A missing or
// non-string message prints as "(null)".
func OnEvaluatePrint(ctx context.Context, hc *host.Context, _ cty.Value, inputs map[string]cty.Value) (map[string]cty.Value, error) {
	msg, ok := value.String(inputs["msg"])
	if !ok {
		ctxlog.FromContext(ctx).Debug("Print input is not a string, printing null.")
		msg = "(null)"
	}
	hc.Logf("[Print] %s", msg)
	return map[string]cty.Value{}, nil
}

// Register registers the definition and its executor.
func (m *Module) Register(r *registry.Registry) {
	r.Register(Definition())
	r.RegisterExecutor(TypeID, registry.ExecutorFunc(OnEvaluatePrint))
}
