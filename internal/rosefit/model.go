package rosefit

import (
	"math"

	"github.com/san-kum/floralyze/internal/projection"
)

// Formula is the exported description of the fitted model. The k/m form is
// the one actually minimized; see DESIGN.md for the formula decision.
const Formula = "r(theta) = a * cos((k/m)*theta + phi)"

// Params defines the rose curve r(theta) = a*cos((k/m)*theta + phi).
type Params struct {
	K   float64
	M   float64
	Phi float64
	A   float64
}

// Radius evaluates the model at the given angle.
func (p Params) Radius(theta float64) float64 {
	return p.A * math.Cos((p.K/p.M)*theta+p.Phi)
}

// RMSError is the radial root-mean-square error of the model against the
// full sample set: sqrt(mean((r_obs - r_model)^2)). Subsampling is a fit
// shortcut only; the reported error always covers every sample.
func RMSError(samples []projection.PolarSample, p Params) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range samples {
		d := s.Radius - p.Radius(s.Angle)
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// Subsample returns an evenly spaced index subset of size n. It never
// copies sample values and never randomizes: the same input yields the
// same subset.
func Subsample(samples []projection.PolarSample, n int) []projection.PolarSample {
	if n <= 0 || n >= len(samples) {
		return samples
	}
	out := make([]projection.PolarSample, n)
	step := float64(len(samples)-1) / float64(n-1)
	for i := 0; i < n; i++ {
		out[i] = samples[int(float64(i)*step)]
	}
	return out
}
