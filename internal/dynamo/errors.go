package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for force evaluation. All of them are caller contract
// violations; none is retryable.
var (
	// ErrOutOfBox indicates a coordinate outside [0, L).
	ErrOutOfBox = errors.New("dynamo: position outside periodic box")

	// ErrCoincident indicates two particles at zero separation.
	ErrCoincident = errors.New("dynamo: coincident particles")

	// ErrCutoffTooLarge indicates rc > min(L)/2.
	ErrCutoffTooLarge = errors.New("dynamo: cutoff exceeds half the smallest box length")

	// ErrTooFewCells indicates fewer than 3 cells on an axis for the cell-list path.
	ErrTooFewCells = errors.New("dynamo: cell list needs at least 3 cells per axis")

	// ErrInvalidConfig indicates a malformed configuration value.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrDimensionMismatch indicates inconsistent particle slice lengths.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch in particle store")

	// ErrUnknownSpecies indicates a species id outside the parameter table.
	ErrUnknownSpecies = errors.New("dynamo: species id not in parameter table")
)

// PreconditionError wraps an error with the offending particle.
type PreconditionError struct {
	Op       string
	Particle int
	Axis     int // -1 when not axis specific
	Value    float64
	Wrapped  error
}

func (e *PreconditionError) Error() string {
	if e.Axis >= 0 {
		return fmt.Sprintf("%s: particle %d axis %d value %g: %v", e.Op, e.Particle, e.Axis, e.Value, e.Wrapped)
	}
	return fmt.Sprintf("%s: particle %d value %g: %v", e.Op, e.Particle, e.Value, e.Wrapped)
}

func (e *PreconditionError) Unwrap() error {
	return e.Wrapped
}
