package axon

import (
	"errors"
	"fmt"
)

// Parameter errors returned by New and Params.Validate.
var (
	// ErrGeometry indicates a non-positive axon radius or length.
	ErrGeometry = errors.New("axon: radius and length must be positive")

	// ErrGridTooFine indicates a grid cell too small for the neighborhood
	// query built on it to see every interacting node.
	ErrGridTooFine = errors.New("axon: grid cell smaller than interaction length")

	// ErrProbability indicates a probability outside [0, 1].
	ErrProbability = errors.New("axon: probability out of [0, 1]")

	// ErrCapacity indicates a negative or zero capacity bound.
	ErrCapacity = errors.New("axon: invalid capacity")
)

// ParamError names the offending parameter.
type ParamError struct {
	Name    string
	Value   any
	Wrapped error
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s (%s = %v)", e.Wrapped.Error(), e.Name, e.Value)
}

func (e *ParamError) Unwrap() error {
	return e.Wrapped
}
