package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/san-kum/floralyze/internal/physics"
)

func TestLyapunovEstimate_ZeroPerturbationIsZero(t *testing.T) {
	// With eps = 0 both trajectories are identical, d stays 0, no
	// renormalization event ever fires, and the defined fallback is 0.
	sys := physics.NewThomas(0.19)
	opts := LyapunovOptions{Duration: 10, Dt: 0.01, Perturbation: 0}

	got := LyapunovEstimate(sys, sys.DefaultState(), opts)
	assert.Equal(t, 0.0, got)
}

func TestLyapunovEstimate_ChaoticRegimeIsPositive(t *testing.T) {
	if testing.Short() {
		t.Skip("long integration")
	}
	lambda := ThomasLyapunov(0.19, DefaultLyapunovOptions())

	assert.False(t, math.IsNaN(lambda), "estimate must be finite")
	assert.False(t, math.IsInf(lambda, 0), "estimate must be finite")
	assert.Greater(t, lambda, 0.0, "b=0.19 is the canonical chaotic regime")
}

func TestLyapunovEstimate_HeavyDampingContracts(t *testing.T) {
	// Strong damping collapses nearby trajectories; the divergence rate
	// must come out negative.
	lambda := ThomasLyapunov(2.0, LyapunovOptions{Duration: 50, Dt: 0.01, Perturbation: 1e-8})

	assert.False(t, math.IsNaN(lambda))
	assert.Less(t, lambda, 0.0)
}

func TestLyapunovEstimate_DegenerateInputs(t *testing.T) {
	sys := physics.NewThomas(0.19)

	assert.Equal(t, 0.0, LyapunovEstimate(sys, nil, DefaultLyapunovOptions()))
	assert.Equal(t, 0.0, LyapunovEstimate(sys, sys.DefaultState(), LyapunovOptions{Duration: 10, Dt: 0}))
	assert.Equal(t, 0.0, LyapunovEstimate(sys, sys.DefaultState(), LyapunovOptions{Duration: 0, Dt: 0.01}))
}
