package model

import "errors"

// Configuration errors raised eagerly at construction time instead of
// surfacing as shape failures deep inside a sub-network.
var (
	// ErrMissingMeta indicates a required data-metadata field is absent
	// or non-positive.
	ErrMissingMeta = errors.New("model: missing required data metadata")

	// ErrInconsistentMeta indicates feature counts that contradict each
	// other (total != state + control).
	ErrInconsistentMeta = errors.New("model: inconsistent data metadata")

	// ErrIndivisible indicates graph feature counts not evenly divisible
	// by the node count.
	ErrIndivisible = errors.New("model: feature count not divisible by node count")

	// ErrBadConfig indicates an invalid hyperparameter value.
	ErrBadConfig = errors.New("model: invalid model configuration")
)
