package integrators

import "github.com/san-kum/floralyze/internal/dynamo"

// Euler is explicit forward-Euler stepping. The exponent estimator relies
// on this being a fixed-step path distinct from the adaptive RK45 solver.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	dx := sys.Derive(x, t)
	result := make(dynamo.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}
