package gnn

import "errors"

// Domain errors for graph network construction and evaluation.
var (
	// ErrBadDimension indicates a non-positive layer dimension or node count.
	ErrBadDimension = errors.New("gnn: dimension must be positive")

	// ErrUnknownConv indicates an unrecognized graph convolution kind.
	ErrUnknownConv = errors.New("gnn: unknown graph convolution")

	// ErrShapeMismatch indicates an input whose node-blocked feature count
	// does not match the network layout.
	ErrShapeMismatch = errors.New("gnn: input shape mismatch")

	// ErrNilEdgeIndex indicates a forward pass without connectivity.
	ErrNilEdgeIndex = errors.New("gnn: edge index is required")

	// ErrNodeCountMismatch indicates an edge index over a different node
	// count than the network was built for.
	ErrNodeCountMismatch = errors.New("gnn: edge index node count mismatch")
)
