// Package engine evaluates a dataflow graph once, node by node.
//
// # Pipeline
//
// Run validates the graph, computes its evaluation schedule with the same
// Kahn's-algorithm construction the validator uses for cycle detection, and
// then walks the schedule sequentially:
//
//  1. Resolve the node's definition and executor. A node type without an
//     executor fails the run with ErrMissingExecutor.
//  2. Bind every declared input pin. Connected pins receive the value the
//     producer committed; unconnected pins, and pins whose producer emitted
//     nothing for that output, are bound to value.Null. Executors can only
//     tell the two apart by comparing with null.
//  3. Invoke the executor with the host context, the node's configuration
//     payload and the inputs.
//  4. Commit the returned outputs under (node id, pin id).
//
// # Failure Model
//
// Execution is all-or-nothing. A validation error is returned unchanged
// before any executor runs. Any run-time failure aborts immediately and Run
// returns only the error; values committed by earlier nodes are discarded
// with the rest of the run. There are no retries.
//
// # Concurrency
//
// A single Run is synchronous. Independent Runs may proceed concurrently on
// one Engine as long as each has its own host.Context; the host log buffer
// itself may be shared.
package engine
