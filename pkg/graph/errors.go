package graph

import "errors"

// Sentinel errors for graph operations. Callers at the routing layer wrap
// these into the GraphInvariant error class (see routing.NewGraphInvariantError).
var (
	// ErrNodeNotFound indicates an operation referenced a node id absent
	// from the graph.
	ErrNodeNotFound = errors.New("graph: node not found")

	// ErrEdgeNotFound indicates an operation referenced an edge
	// (source, target, key) absent from the graph.
	ErrEdgeNotFound = errors.New("graph: edge not found")

	// ErrNodeCollision indicates AddNode was called with an id that
	// already exists in the graph.
	ErrNodeCollision = errors.New("graph: node id collision")
)
