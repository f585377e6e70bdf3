// Package app contains the host application around the dataflow core. It
// wires the registry from compiled modules and HCL manifests, loads graph
// documents, evaluates them concurrently and reports the results, decoupled
// from any specific entrypoint like a CLI.
package app
