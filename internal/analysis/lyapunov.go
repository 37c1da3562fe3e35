package analysis

import (
	"math"

	"github.com/san-kum/floralyze/internal/dynamo"
	"github.com/san-kum/floralyze/internal/integrators"
	"github.com/san-kum/floralyze/internal/physics"
)

// LyapunovOptions are the estimator's tuning knobs. Accuracy depends on
// all three; they are caller-supplied, not system constants.
type LyapunovOptions struct {
	Duration     float64 // total integration time T
	Dt           float64 // fixed Euler step
	Perturbation float64 // initial offset in the first coordinate
}

func DefaultLyapunovOptions() LyapunovOptions {
	return LyapunovOptions{
		Duration:     200.0,
		Dt:           0.01,
		Perturbation: 1e-8,
	}
}

// LyapunovEstimate approximates the largest Lyapunov exponent of sys by the
// trajectory separation method:
//
//  1. Run two trajectories from x0 and x0 offset by the perturbation in
//     the first coordinate, using fixed-step forward Euler.
//  2. At every step accumulate ln(d/d_ref) for the current separation d
//     and reset d_ref = d. The reset is a renormalization: it keeps the
//     logarithm increments bounded over long runs.
//  3. The estimate is sum/(count*dt).
//
// If no step ever produces d > 0 (for example a zero perturbation), the
// estimate is 0 by definition; that degenerate case is not an error.
//
// This is deliberately a cheap fixed-step path, numerically distinct from
// the adaptive solver used for trajectory sampling.
func LyapunovEstimate(sys dynamo.System, x0 dynamo.State, opts LyapunovOptions) float64 {
	if len(x0) == 0 || opts.Dt <= 0 || opts.Duration <= 0 {
		return 0
	}

	integ := integrators.NewEuler()

	x := x0.Clone()
	xp := x0.Clone()
	xp[0] += opts.Perturbation

	dRef := math.Abs(opts.Perturbation)

	sumLog := 0.0
	count := 0
	t := 0.0

	steps := int(opts.Duration / opts.Dt)
	for i := 0; i < steps; i++ {
		x = integ.Step(sys, x, t, opts.Dt)
		xp = integ.Step(sys, xp, t, opts.Dt)
		t += opts.Dt

		sep := 0.0
		for j := range x {
			diff := xp[j] - x[j]
			sep += diff * diff
		}
		sep = math.Sqrt(sep)

		if sep > 0 && dRef > 0 {
			sumLog += math.Log(sep / dRef)
			dRef = sep
			count++
		}
	}

	if count == 0 {
		return 0
	}
	return sumLog / (float64(count) * opts.Dt)
}

// ThomasLyapunov estimates the exponent for the Thomas system with damping
// b from the canonical (1,1,1) start.
func ThomasLyapunov(b float64, opts LyapunovOptions) float64 {
	sys := physics.NewThomas(b)
	return LyapunovEstimate(sys, sys.DefaultState(), opts)
}
