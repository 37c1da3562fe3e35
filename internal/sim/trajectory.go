package sim

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/floralyze/internal/dynamo"
	"github.com/san-kum/floralyze/internal/integrators"
)

// Trajectory is an ordered, finite sequence of (time, state) samples with
// strictly increasing times. It is built once and immutable afterward.
type Trajectory struct {
	Times  []float64
	States []dynamo.State
}

func (tr *Trajectory) Len() int { return len(tr.Times) }

// Options tunes the adaptive solver behind SampleTrajectory.
type Options struct {
	Tolerance float64
	InitialDt float64
	MinDt     float64
	MaxDt     float64
}

func DefaultOptions() Options {
	return Options{
		Tolerance: 1e-6,
		InitialDt: 0.01,
		MinDt:     1e-10,
		MaxDt:     1.0,
	}
}

// attemptCap bounds step-size halving per output step; beyond it the
// tolerance is treated as unsatisfiable.
const attemptCap = 200

// SampleTrajectory integrates sys forward from x0 over [t0, t1] and returns
// exactly samples states at evenly spaced times, endpoints inclusive.
//
// Integration uses adaptive Dormand-Prince stepping internally; requested
// sample states are produced by cubic Hermite interpolation between
// accepted steps, so the sample count does not affect numerical accuracy.
//
// If the step controller cannot satisfy the tolerance, or the state goes
// NaN/Inf, SampleTrajectory fails with an error wrapping
// [dynamo.ErrNumericalDivergence]; it never returns a partial trajectory.
func SampleTrajectory(sys dynamo.System, x0 dynamo.State, t0, t1 float64, samples int, opts Options) (*Trajectory, error) {
	if samples < 2 {
		return nil, fmt.Errorf("sim: need at least 2 samples, got %d", samples)
	}
	if t1 <= t0 {
		return nil, fmt.Errorf("sim: time span must be increasing, got [%g, %g]", t0, t1)
	}
	if !x0.IsValid() {
		return nil, dynamo.ErrInvalidState
	}
	if opts.Tolerance <= 0 {
		return nil, fmt.Errorf("sim: tolerance must be positive, got %g", opts.Tolerance)
	}

	sampleTimes := floats.Span(make([]float64, samples), t0, t1)

	traj := &Trajectory{
		Times:  sampleTimes,
		States: make([]dynamo.State, samples),
	}
	traj.States[0] = x0.Clone()

	integ := integrators.NewRK45()

	x := x0.Clone()
	f := sys.Derive(x, t0)
	t := t0
	dt := opts.InitialDt
	if dt > opts.MaxDt {
		dt = opts.MaxDt
	}

	si := 1 // next sample index to fill
	step := 0

	for si < samples {
		if dt > t1-t {
			dt = t1 - t
		}

		var (
			xNew    dynamo.State
			errNorm float64
			dtNext  float64
		)

		accepted := false
		for attempt := 0; attempt < attemptCap; attempt++ {
			xNew, errNorm, dtNext = integ.StepAdaptive(sys, x, t, dt, opts.Tolerance)
			if errNorm <= 1 && xNew.IsValid() {
				accepted = true
				break
			}
			dt = dtNext
			if dt < opts.MinDt {
				return nil, &dynamo.IntegrationError{
					Time: t, Step: step, State: x.Clone(),
					Wrapped: dynamo.ErrNumericalDivergence,
				}
			}
		}
		if !accepted {
			return nil, &dynamo.IntegrationError{
				Time: t, Step: step, State: x.Clone(),
				Wrapped: dynamo.ErrNumericalDivergence,
			}
		}

		tNew := t + dt
		fNew := sys.Derive(xNew, tNew)

		for si < samples && sampleTimes[si] <= tNew+1e-12 {
			traj.States[si] = hermite(t, tNew, x, xNew, f, fNew, sampleTimes[si])
			si++
		}

		x, f, t = xNew, fNew, tNew
		step++

		dt = dtNext
		if dt > opts.MaxDt {
			dt = opts.MaxDt
		}
		if dt < opts.MinDt {
			dt = opts.MinDt
		}
	}

	return traj, nil
}

// hermite evaluates the cubic Hermite interpolant on [ta, tb] at ts.
func hermite(ta, tb float64, xa, xb dynamo.State, fa, fb dynamo.State, ts float64) dynamo.State {
	h := tb - ta
	if h == 0 {
		return xb.Clone()
	}
	u := (ts - ta) / h
	u2 := u * u
	u3 := u2 * u

	h00 := 2*u3 - 3*u2 + 1
	h10 := u3 - 2*u2 + u
	h01 := -2*u3 + 3*u2
	h11 := u3 - u2

	out := make(dynamo.State, len(xa))
	for i := range xa {
		out[i] = h00*xa[i] + h10*h*fa[i] + h01*xb[i] + h11*h*fb[i]
	}
	return out
}
