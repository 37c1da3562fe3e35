package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for the analysis pipeline.
var (
	// ErrInvalidState indicates a state vector with NaN or Inf components.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrNumericalDivergence indicates the adaptive integrator could not
	// meet its error tolerance without underflowing the step size.
	ErrNumericalDivergence = errors.New("dynamo: integration diverged (tolerance unsatisfiable)")

	// ErrFitNonConvergence indicates the curve-fit optimizer exhausted its
	// iteration budget.
	ErrFitNonConvergence = errors.New("dynamo: fit did not converge within iteration budget")

	// ErrInvalidMetric indicates a negative or non-finite metric reached
	// the Flower Index combiner.
	ErrInvalidMetric = errors.New("dynamo: invalid metric (negative or missing)")

	// ErrMalformedRecord indicates a configuration record missing a
	// required field or carrying an unparseable value.
	ErrMalformedRecord = errors.New("dynamo: malformed configuration record")

	// ErrParameterBounds indicates a parameter value outside its valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")
)

// IntegrationError wraps ErrNumericalDivergence with solver context.
type IntegrationError struct {
	Time    float64
	Step    int
	State   State
	Wrapped error
}

func (e *IntegrationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Wrapped.Error())
}

func (e *IntegrationError) Unwrap() error {
	return e.Wrapped
}
