package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/vk/nodeflow/internal/value"
)

type document struct {
	Version uint32         `json:"version"`
	Nodes   []documentNode `json:"nodes"`
	Edges   []documentEdge `json:"edges"`
}

type documentNode struct {
	ID       uuid.UUID       `json:"id"`
	TypeID   string          `json:"type_id"`
	Position []float64       `json:"position"`
	Data     json.RawMessage `json:"data,omitempty"`
}

type documentEdge struct {
	ID     uuid.UUID `json:"id"`
	Src    uuid.UUID `json:"src"`
	SrcPin string    `json:"src_pin"`
	Dst    uuid.UUID `json:"dst"`
	DstPin string    `json:"dst_pin"`
}

// Decode reads a graph document. A node without data gets a null payload
// and a node without a position sits at the origin.
func Decode(r io.Reader) (*Graph, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode graph document: %w", err)
	}

	g := &Graph{
		Version: doc.Version,
		Nodes:   make([]NodeInstance, 0, len(doc.Nodes)),
		Edges:   make([]Edge, 0, len(doc.Edges)),
	}
	for i, n := range doc.Nodes {
		var pos Position
		switch len(n.Position) {
		case 0:
		case 2:
			pos = Position{n.Position[0], n.Position[1]}
		default:
			return nil, fmt.Errorf("node %d (%s): position must be [x, y], got %d elements", i, n.ID, len(n.Position))
		}
		data, err := value.FromJSON(n.Data)
		if err != nil {
			return nil, fmt.Errorf("node %d (%s): %w", i, n.ID, err)
		}
		g.Nodes = append(g.Nodes, NodeInstance{
			ID:       n.ID,
			TypeID:   n.TypeID,
			Position: pos,
			Data:     data,
		})
	}
	for _, e := range doc.Edges {
		g.Edges = append(g.Edges, Edge(e))
	}
	return g, nil
}

// Encode writes g as an indented graph document.
func Encode(w io.Writer, g *Graph) error {
	doc := document{
		Version: g.Version,
		Nodes:   make([]documentNode, 0, len(g.Nodes)),
		Edges:   make([]documentEdge, 0, len(g.Edges)),
	}
	for _, n := range g.Nodes {
		data, err := value.ToJSON(n.Data)
		if err != nil {
			return fmt.Errorf("node %s: %w", n.ID, err)
		}
		doc.Nodes = append(doc.Nodes, documentNode{
			ID:       n.ID,
			TypeID:   n.TypeID,
			Position: []float64{n.Position[0], n.Position[1]},
			Data:     data,
		})
	}
	for _, e := range g.Edges {
		doc.Edges = append(doc.Edges, documentEdge(e))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode graph document: %w", err)
	}
	return nil
}

// LoadFile decodes the graph document at path.
func LoadFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	g, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// SaveFile writes g to path, replacing any existing file.
func SaveFile(path string, g *Graph) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, g); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
