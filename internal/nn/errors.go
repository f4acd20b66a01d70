package nn

import "errors"

// Domain errors for network construction and evaluation.
var (
	// ErrBadDimension indicates a non-positive layer dimension.
	ErrBadDimension = errors.New("nn: dimension must be positive")

	// ErrNegativeLayers indicates a negative layer count.
	ErrNegativeLayers = errors.New("nn: layer count must be non-negative")

	// ErrUnknownActivation indicates an unrecognized activation name.
	ErrUnknownActivation = errors.New("nn: unknown activation")

	// ErrUnknownInit indicates an unrecognized initializer name.
	ErrUnknownInit = errors.New("nn: unknown initializer")

	// ErrShapeMismatch indicates an input whose feature count does not
	// match the network's input dimension.
	ErrShapeMismatch = errors.New("nn: input shape mismatch")
)
