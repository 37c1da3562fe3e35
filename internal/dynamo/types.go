package dynamo

import "math"

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// System is an autonomous ODE system dX/dt = f(X, t).
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

// Integrator advances a state by one fixed step.
type Integrator interface {
	Step(sys System, x State, t, dt float64) State
}

// AdaptiveIntegrator additionally exposes error-controlled stepping.
// StepAdaptive attempts a step of size dt and returns the candidate state,
// the normalized error estimate (accept when <= 1), and a suggested next
// step size.
type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(sys System, x State, t, dt, tol float64) (next State, errNorm, dtNext float64)
}

// Configurable systems expose runtime-tunable parameters.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64)
}
