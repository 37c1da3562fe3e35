package analysis

import (
	"math"

	"github.com/san-kum/floralyze/internal/dynamo"
)

// FlowerIndex combines the radial RMS fit error E and the Lyapunov
// exponent estimate lambda into one floral-symmetry score:
//
//	FI = (1 / (1 + E)) * exp(-lambda)
//
// FI(0, 0) is exactly 1 and the index is strictly decreasing in both
// arguments over E, lambda >= 0. Negative or non-finite inputs are a
// typed [dynamo.ErrInvalidMetric] failure; FI is never coerced to zero or
// a default. The function is pure and recomputable from persisted (E,
// lambda) without re-running the pipeline.
func FlowerIndex(e, lambda float64) (float64, error) {
	if math.IsNaN(e) || math.IsNaN(lambda) || math.IsInf(e, 0) || math.IsInf(lambda, 0) {
		return math.NaN(), dynamo.ErrInvalidMetric
	}
	if e < 0 || lambda < 0 {
		return math.NaN(), dynamo.ErrInvalidMetric
	}
	return (1.0 / (1.0 + e)) * math.Exp(-lambda), nil
}
