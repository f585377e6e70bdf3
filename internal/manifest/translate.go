package manifest

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/nodeflow/internal/ctxlog"
	"github.com/vk/nodeflow/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// translateNode converts a decoded node block into a definition.
func translateNode(ctx context.Context, b *nodeBlock) (registry.NodeDefinition, error) {
	ctx, logger := ctxlog.With(ctx, "type_id", b.TypeID)
	logger.Debug("Translating node manifest.")

	def := registry.NodeDefinition{
		TypeID:      b.TypeID,
		DisplayName: b.DisplayName,
	}
	if def.TypeID == "" {
		return def, fmt.Errorf("node block has an empty type id")
	}
	if def.DisplayName == "" {
		def.DisplayName = def.TypeID
	}

	var err error
	if def.Inputs, err = translatePins(ctx, "input", b.Inputs); err != nil {
		return def, fmt.Errorf("node '%s': %w", b.TypeID, err)
	}
	if def.Outputs, err = translatePins(ctx, "output", b.Outputs); err != nil {
		return def, fmt.Errorf("node '%s': %w", b.TypeID, err)
	}
	return def, nil
}

func translatePins(ctx context.Context, side string, blocks []*pinBlock) ([]registry.PinDefinition, error) {
	pins := make([]registry.PinDefinition, 0, len(blocks))
	seen := make(map[string]struct{}, len(blocks))
	for _, b := range blocks {
		if _, dup := seen[b.ID]; dup {
			return nil, fmt.Errorf("%s '%s' is declared more than once", side, b.ID)
		}
		seen[b.ID] = struct{}{}

		ty, err := typeExprToValueType(ctx, b.Type)
		if err != nil {
			return nil, fmt.Errorf("%s '%s': %w", side, b.ID, err)
		}
		name := b.Name
		if name == "" {
			name = b.ID
		}
		pins = append(pins, registry.PinDefinition{ID: b.ID, Name: name, Type: ty})
	}
	return pins, nil
}

// typeExprToValueType converts a pin type expression into its ValueType.
func typeExprToValueType(ctx context.Context, expr hcl.Expression) (registry.ValueType, error) {
	logger := ctxlog.FromContext(ctx)

	if expr == nil {
		return registry.TypeAny, nil
	}

	switch v := expr.(type) {
	case *hclsyntax.ScopeTraversalExpr:
		if len(v.Traversal) != 1 {
			return registry.TypeAny, fmt.Errorf("invalid type keyword: traversal path is not a single identifier")
		}
		logger.Debug("Parsing type keyword.", "keyword", v.Traversal.RootName())
		return registry.ParseValueType(v.Traversal.RootName())
	}

	// Omitted attributes decode to a static null; quoted keywords evaluate
	// to a string.
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return registry.TypeAny, fmt.Errorf("unsupported expression for type definition: %w", diags)
	}
	switch {
	case val.IsNull():
		logger.Debug("Type expression is absent, defaulting to any.")
		return registry.TypeAny, nil
	case val.Type().Equals(cty.String) && val.IsKnown():
		return registry.ParseValueType(val.AsString())
	}
	return registry.TypeAny, fmt.Errorf("unsupported expression for type definition: %s", val.Type().FriendlyName())
}
