package graph

import "github.com/google/uuid"

// TopologicalOrder runs Kahn's algorithm over the node-to-node arcs formed
// by the edges, ignoring pin identity. Nodes with no incoming arcs are seeded
// in node order, and a node is appended as soon as its last dependency has
// been visited, so the order is stable for an unchanged graph.
//
// The result lists every node exactly once if and only if the graph is
// acyclic; nodes on or downstream of a cycle are left out. Arcs touching ids
// that are not nodes of the graph are ignored.
func (g *Graph) TopologicalOrder() []uuid.UUID {
	inDegree := make(map[uuid.UUID]int, len(g.Nodes))
	for _, n := range g.Nodes {
		inDegree[n.ID] = 0
	}

	adjacency := make(map[uuid.UUID][]uuid.UUID, len(g.Nodes))
	for _, e := range g.Edges {
		if _, ok := inDegree[e.Src]; !ok {
			continue
		}
		if _, ok := inDegree[e.Dst]; !ok {
			continue
		}
		adjacency[e.Src] = append(adjacency[e.Src], e.Dst)
		inDegree[e.Dst]++
	}

	queue := make([]uuid.UUID, 0, len(g.Nodes))
	seeded := make(map[uuid.UUID]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		if _, dup := seeded[n.ID]; dup {
			continue
		}
		seeded[n.ID] = struct{}{}
		if inDegree[n.ID] == 0 {
			queue = append(queue, n.ID)
		}
	}

	order := make([]uuid.UUID, 0, len(g.Nodes))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)

		for _, next := range adjacency[id] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}
	return order
}
