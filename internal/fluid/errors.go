package fluid

import (
	"errors"
	"fmt"
)

var (
	// ErrGridTooSmall indicates a grid without any interior cells.
	ErrGridTooSmall = errors.New("fluid: grid size must be at least 3")

	// ErrInvalidParameter indicates a negative or non-finite dt, diffusion or viscosity.
	ErrInvalidParameter = errors.New("fluid: parameter must be finite and non-negative")

	// ErrDimensionMismatch indicates the six field grids do not share one square shape.
	ErrDimensionMismatch = errors.New("fluid: dimension mismatch between field grids")

	// ErrUnstable indicates a field picked up NaN or Inf values.
	ErrUnstable = errors.New("fluid: simulation unstable (non-finite field)")
)

// InstabilityError reports which field went non-finite and on which frame.
type InstabilityError struct {
	Frame   int
	Field   string
	Wrapped error
}

func (e *InstabilityError) Error() string {
	return fmt.Sprintf("frame %d: %s: %v", e.Frame, e.Field, e.Wrapped)
}

func (e *InstabilityError) Unwrap() error {
	return e.Wrapped
}
