package rollout

import (
	"errors"
	"fmt"
)

// Domain errors for trajectory prediction.
var (
	// ErrUnknownMethod indicates an unrecognized solver name.
	ErrUnknownMethod = errors.New("rollout: unknown solver method")

	// ErrUnknownOrder indicates an unrecognized control interpolation order.
	ErrUnknownOrder = errors.New("rollout: unknown input interpolation order")

	// ErrBadTimes indicates an empty or non-increasing time grid.
	ErrBadTimes = errors.New("rollout: time points must be strictly increasing")

	// ErrControlLength indicates a control tensor whose row count does not
	// match the time grid.
	ErrControlLength = errors.New("rollout: control rows must match time points")

	// ErrUnstable indicates the integration produced NaN or Inf.
	ErrUnstable = errors.New("rollout: integration unstable (state diverged)")

	// ErrStepTooSmall indicates the adaptive step fell below the minimum.
	ErrStepTooSmall = errors.New("rollout: adaptive step below minimum")
)

// StepError wraps an integration failure with solver context.
type StepError struct {
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("t=%.6f: %s", e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
