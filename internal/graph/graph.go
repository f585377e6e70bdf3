package graph

import (
	"github.com/google/uuid"
	"github.com/vk/nodeflow/internal/value"
	"github.com/zclconf/go-cty/cty"
)

// CurrentVersion is the document version written by Empty.
const CurrentVersion = 1

// Position is the editor location of a node. It is presentation only.
type Position [2]float64

// NodeInstance is one node of a graph.
type NodeInstance struct {
	ID       uuid.UUID
	TypeID   string
	Position Position
	// Data is the node's configuration payload, read only by its executor.
	Data cty.Value
}

// Edge connects an output pin of Src to an input pin of Dst.
type Edge struct {
	ID     uuid.UUID
	Src    uuid.UUID
	SrcPin string
	Dst    uuid.UUID
	DstPin string
}

// Graph is a dataflow document. Nodes keep their insertion order, which is
// the tie-break order of the evaluation schedule.
type Graph struct {
	Version uint32
	Nodes   []NodeInstance
	Edges   []Edge
}

// Empty returns a graph at the current version with no nodes or edges.
func Empty() *Graph {
	return &Graph{Version: CurrentVersion}
}

// AddNode appends a node of the given type and returns its id.
func (g *Graph) AddNode(typeID string, data cty.Value) uuid.UUID {
	return g.AddNodeAt(typeID, Position{}, data)
}

// AddNodeAt appends a node at pos and returns its id.
func (g *Graph) AddNodeAt(typeID string, pos Position, data cty.Value) uuid.UUID {
	if data == cty.NilVal {
		data = value.Null
	}
	n := NodeInstance{ID: uuid.New(), TypeID: typeID, Position: pos, Data: data}
	g.Nodes = append(g.Nodes, n)
	return n.ID
}

// Connect appends an edge from src.srcPin to dst.dstPin and returns its id.
// Endpoints are not checked.
func (g *Graph) Connect(src uuid.UUID, srcPin string, dst uuid.UUID, dstPin string) uuid.UUID {
	e := Edge{ID: uuid.New(), Src: src, SrcPin: srcPin, Dst: dst, DstPin: dstPin}
	g.Edges = append(g.Edges, e)
	return e.ID
}

// Node returns the first node with the given id.
func (g *Graph) Node(id uuid.UUID) (*NodeInstance, bool) {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i], true
		}
	}
	return nil, false
}

// Index maps node ids to their position in Nodes. For duplicated ids the
// first occurrence wins.
func (g *Graph) Index() map[uuid.UUID]int {
	idx := make(map[uuid.UUID]int, len(g.Nodes))
	for i, n := range g.Nodes {
		if _, seen := idx[n.ID]; !seen {
			idx[n.ID] = i
		}
	}
	return idx
}

// Incoming groups edges by destination node, preserving edge order.
func (g *Graph) Incoming() map[uuid.UUID][]Edge {
	in := make(map[uuid.UUID][]Edge)
	for _, e := range g.Edges {
		in[e.Dst] = append(in[e.Dst], e)
	}
	return in
}
