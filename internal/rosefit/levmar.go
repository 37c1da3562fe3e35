package rosefit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/floralyze/internal/dynamo"
	"github.com/san-kum/floralyze/internal/projection"
)

// FitOptions tunes the Levenberg-Marquardt loop.
type FitOptions struct {
	// MaxIterations bounds the optimizer; exceeding it is a
	// non-convergence failure, never a silent best-effort result.
	MaxIterations int
	// SubsampleSize, when positive and smaller than the sample count,
	// fits against an evenly spaced index subset of this size.
	SubsampleSize int
	// CostTolerance stops iteration when the relative cost improvement
	// falls below it.
	CostTolerance float64
}

func DefaultFitOptions() FitOptions {
	return FitOptions{
		MaxIterations: 200,
		SubsampleSize: 8000,
		CostTolerance: 1e-12,
	}
}

// NonConvergenceError carries the last iterate when the optimizer runs out
// of budget. Callers may retry with a different seed; the fitter never
// retries on its own.
type NonConvergenceError struct {
	Last       Params
	Iterations int
	Cost       float64
}

func (e *NonConvergenceError) Error() string {
	return fmt.Sprintf("rosefit: no convergence after %d iterations (cost %.6g)", e.Iterations, e.Cost)
}

func (e *NonConvergenceError) Unwrap() error { return dynamo.ErrFitNonConvergence }

// Fit finds rose-curve parameters minimizing the sum of squared radial
// residuals via Levenberg-Marquardt, seeded at seed. gonum/optimize carries
// no damped least-squares method, so the damped normal equations are solved
// directly with gonum/mat.
//
// The model only identifies k and m through their ratio, so the optimizer
// works on omega = k/m together with phi and a; fitting all four would
// leave the normal equations singular along the (k, m) scaling direction.
// The result keeps the seed's m and maps omega back to k.
func Fit(samples []projection.PolarSample, seed Params, opts FitOptions) (Params, error) {
	if len(samples) < 4 {
		return seed, fmt.Errorf("rosefit: need at least 4 samples, got %d", len(samples))
	}
	if seed.M == 0 {
		return seed, fmt.Errorf("rosefit: seed m must be nonzero: %w", dynamo.ErrParameterBounds)
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultFitOptions().MaxIterations
	}
	if opts.CostTolerance <= 0 {
		opts.CostTolerance = DefaultFitOptions().CostTolerance
	}

	pts := Subsample(samples, opts.SubsampleSize)

	// p = (omega, phi, a)
	p := [3]float64{seed.K / seed.M, seed.Phi, seed.A}
	cost := sumSquares(pts, p)
	if math.IsNaN(cost) || math.IsInf(cost, 0) {
		return seed, fmt.Errorf("rosefit: seed %+v produces non-finite residuals: %w", seed, dynamo.ErrParameterBounds)
	}

	lambda := 1e-3
	iter := 0

	jtj := mat.NewSymDense(3, nil)
	jtr := mat.NewVecDense(3, nil)

	for ; iter < opts.MaxIterations; iter++ {
		buildNormalEquations(pts, p, jtj, jtr)

		stepped := false
		for tries := 0; tries < 30; tries++ {
			delta, ok := solveDamped(jtj, jtr, lambda)
			if !ok {
				lambda *= 10
				continue
			}

			var trial [3]float64
			for i := 0; i < 3; i++ {
				trial[i] = p[i] + delta.AtVec(i)
			}

			trialCost := sumSquares(pts, trial)
			if !math.IsNaN(trialCost) && trialCost < cost {
				improvement := (cost - trialCost) / math.Max(cost, 1e-300)
				p = trial
				cost = trialCost
				lambda = math.Max(lambda/10, 1e-12)
				stepped = true

				if improvement < opts.CostTolerance {
					return paramsFrom(p, seed.M), nil
				}
				break
			}
			lambda *= 10
		}

		if !stepped {
			// Damping saturated: the iterate is a stationary point of
			// the damped problem.
			return paramsFrom(p, seed.M), nil
		}
	}

	return paramsFrom(p, seed.M), &NonConvergenceError{
		Last:       paramsFrom(p, seed.M),
		Iterations: iter,
		Cost:       cost,
	}
}

func paramsFrom(p [3]float64, m float64) Params {
	return Params{K: p[0] * m, M: m, Phi: p[1], A: p[2]}
}

func modelRadius(p [3]float64, theta float64) float64 {
	return p[2] * math.Cos(p[0]*theta+p[1])
}

func sumSquares(pts []projection.PolarSample, p [3]float64) float64 {
	sum := 0.0
	for _, s := range pts {
		d := s.Radius - modelRadius(p, s.Angle)
		sum += d * d
	}
	return sum
}

// buildNormalEquations fills JtJ and Jtr for the residual
// r_i = observed_i - a*cos(w_i), w_i = omega*theta_i + phi.
func buildNormalEquations(pts []projection.PolarSample, p [3]float64, jtj *mat.SymDense, jtr *mat.VecDense) {
	jtj.Zero()
	jtr.Zero()

	for _, s := range pts {
		w := p[0]*s.Angle + p[1]
		sin, cos := math.Sincos(w)
		res := s.Radius - p[2]*cos

		// Gradient of the model; the residual gradient is its negation.
		g := [3]float64{
			-p[2] * sin * s.Angle,
			-p[2] * sin,
			cos,
		}

		for i := 0; i < 3; i++ {
			for j := i; j < 3; j++ {
				jtj.SetSym(i, j, jtj.At(i, j)+g[i]*g[j])
			}
			jtr.SetVec(i, jtr.AtVec(i)+g[i]*res)
		}
	}
}

// solveDamped solves (JtJ + lambda*diag(JtJ)) delta = Jtr.
func solveDamped(jtj *mat.SymDense, jtr *mat.VecDense, lambda float64) (*mat.VecDense, bool) {
	damped := mat.NewSymDense(3, nil)
	damped.CopySym(jtj)
	for i := 0; i < 3; i++ {
		d := jtj.At(i, i)
		if d == 0 {
			d = 1e-12
		}
		damped.SetSym(i, i, d*(1+lambda))
	}

	var chol mat.Cholesky
	if !chol.Factorize(damped) {
		return nil, false
	}

	delta := mat.NewVecDense(3, nil)
	if err := chol.SolveVecTo(delta, jtr); err != nil {
		return nil, false
	}
	return delta, true
}
