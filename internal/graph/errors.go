package graph

import "errors"

// Domain errors for edge-index construction.
var (
	// ErrNoNodes indicates an edge index over zero nodes.
	ErrNoNodes = errors.New("graph: edge index needs at least one node")

	// ErrLengthMismatch indicates src/dst slices of different length.
	ErrLengthMismatch = errors.New("graph: src and dst must have equal length")

	// ErrNodeOutOfRange indicates an edge endpoint outside [0, n).
	ErrNodeOutOfRange = errors.New("graph: node id out of range")

	// ErrNilGraph indicates a nil source graph.
	ErrNilGraph = errors.New("graph: nil source graph")
)
