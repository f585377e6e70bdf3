// Package registry is the catalog of node types available to a graph.
//
// A Registry stores two independent mappings keyed by the same type
// identifier: the declared shape of each node type (its NodeDefinition,
// with ordered, typed input and output pins) and the Executor that computes
// the outputs of nodes of that type. The validator only consults the
// definitions; the engine consults both, so a type that is declared but has
// no executor passes validation and fails at run time.
//
// Definitions and executors are registered once while the application is
// wired, usually through Module implementations, and are read-only
// afterwards. All read methods are safe for concurrent use.
package registry
