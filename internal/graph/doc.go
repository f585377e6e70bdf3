// Package graph is the plain data model of a dataflow document: node
// instances, the typed edges between their pins, and the JSON wire format
// used to persist them.
//
// A Graph is owned and mutated by its author. The validator and the engine
// treat the graph they are given as an immutable snapshot and never write
// to it. Structural invariants (edges reference existing nodes and declared
// pins, unique node ids, acyclicity) are not enforced here; they are checked
// by package validate.
//
// TopologicalOrder is the single Kahn's-algorithm construction shared by the
// cycle check and by the engine's evaluation schedule, so both always agree
// on which nodes are reachable in dependency order.
package graph
