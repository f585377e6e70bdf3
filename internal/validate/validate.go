// Package validate checks a graph against the node definitions of a
// registry before it is evaluated.
package validate

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/vk/nodeflow/internal/graph"
	"github.com/vk/nodeflow/internal/registry"
)

// Definitions resolves node definitions by type id. *registry.Registry
// satisfies it.
type Definitions interface {
	Get(typeID string) (registry.NodeDefinition, bool)
}

// Validate checks g and returns the first problem found, as an *Error.
//
// Checks run in a fixed order and stop at the first failure: node ids are
// unique and every node type is known; every edge references existing
// nodes and pins declared on the correct side; every edge joins compatible
// pin types; the graph is acyclic. The order decides which error is reported
// for a graph that is invalid in several ways.
func Validate(g *graph.Graph, defs Definitions) error {
	types, err := checkNodes(g, defs)
	if err != nil {
		return err
	}

	pins := make([]edgePins, 0, len(g.Edges))
	for _, e := range g.Edges {
		p, err := resolvePins(e, types)
		if err != nil {
			return err
		}
		pins = append(pins, p)
	}

	for _, p := range pins {
		if !p.src.Type.CompatibleWith(p.dst.Type) {
			return &Error{
				Err:    ErrTypeMismatch,
				EdgeID: p.edge.ID,
				Detail: fmt.Sprintf("%s.%s (%s) -> %s.%s (%s)",
					p.edge.Src, p.edge.SrcPin, p.src.Type, p.edge.Dst, p.edge.DstPin, p.dst.Type),
			}
		}
	}

	if order := g.TopologicalOrder(); len(order) < len(g.Nodes) {
		return &Error{
			Err:    ErrCycle,
			Detail: fmt.Sprintf("%d of %d nodes cannot be ordered", len(g.Nodes)-len(order), len(g.Nodes)),
		}
	}
	return nil
}

func checkNodes(g *graph.Graph, defs Definitions) (map[uuid.UUID]registry.NodeDefinition, error) {
	types := make(map[uuid.UUID]registry.NodeDefinition, len(g.Nodes))
	for _, n := range g.Nodes {
		if _, dup := types[n.ID]; dup {
			return nil, &Error{Err: ErrDuplicateNode, NodeID: n.ID, Detail: n.ID.String()}
		}
		def, ok := defs.Get(n.TypeID)
		if !ok {
			return nil, &Error{Err: ErrUnknownNodeType, NodeID: n.ID, Detail: n.TypeID}
		}
		types[n.ID] = def
	}
	return types, nil
}

type edgePins struct {
	edge graph.Edge
	src  registry.PinDefinition
	dst  registry.PinDefinition
}

func resolvePins(e graph.Edge, types map[uuid.UUID]registry.NodeDefinition) (edgePins, error) {
	srcDef, ok := types[e.Src]
	if !ok {
		return edgePins{}, &Error{Err: ErrUnknownPin, EdgeID: e.ID, Detail: fmt.Sprintf("source node %s not found", e.Src)}
	}
	dstDef, ok := types[e.Dst]
	if !ok {
		return edgePins{}, &Error{Err: ErrUnknownPin, EdgeID: e.ID, Detail: fmt.Sprintf("destination node %s not found", e.Dst)}
	}
	src, ok := srcDef.Output(e.SrcPin)
	if !ok {
		return edgePins{}, &Error{Err: ErrUnknownPin, NodeID: e.Src, EdgeID: e.ID, Detail: fmt.Sprintf("%s has no output '%s'", srcDef.TypeID, e.SrcPin)}
	}
	dst, ok := dstDef.Input(e.DstPin)
	if !ok {
		return edgePins{}, &Error{Err: ErrUnknownPin, NodeID: e.Dst, EdgeID: e.ID, Detail: fmt.Sprintf("%s has no input '%s'", dstDef.TypeID, e.DstPin)}
	}
	return edgePins{edge: e, src: src, dst: dst}, nil
}
