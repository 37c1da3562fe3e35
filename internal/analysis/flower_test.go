package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/floralyze/internal/dynamo"
)

func TestFlowerIndex_PerfectScore(t *testing.T) {
	fi, err := FlowerIndex(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, fi, "FI(0,0) must be exactly 1")
}

func TestFlowerIndex_Formula(t *testing.T) {
	fi, err := FlowerIndex(0.5, 0.1)
	require.NoError(t, err)
	assert.InDelta(t, (1.0/1.5)*math.Exp(-0.1), fi, 1e-15)
}

func TestFlowerIndex_StrictlyDecreasing(t *testing.T) {
	prev := 2.0
	for _, e := range []float64{0, 0.1, 0.5, 1, 10} {
		fi, err := FlowerIndex(e, 0.2)
		require.NoError(t, err)
		assert.Less(t, fi, prev, "FI must decrease with E")
		prev = fi
	}

	prev = 2.0
	for _, lambda := range []float64{0, 0.1, 0.5, 1, 10} {
		fi, err := FlowerIndex(0.2, lambda)
		require.NoError(t, err)
		assert.Less(t, fi, prev, "FI must decrease with lambda")
		prev = fi
	}
}

func TestFlowerIndex_Range(t *testing.T) {
	for _, e := range []float64{0, 0.5, 3} {
		for _, lambda := range []float64{0, 0.2, 2} {
			fi, err := FlowerIndex(e, lambda)
			require.NoError(t, err)
			assert.Greater(t, fi, 0.0)
			assert.LessOrEqual(t, fi, 1.0)
		}
	}
}

func TestFlowerIndex_InvalidInputs(t *testing.T) {
	cases := []struct {
		name      string
		e, lambda float64
	}{
		{"negative E", -0.1, 0.5},
		{"negative lambda", 0.5, -0.1},
		{"NaN E", math.NaN(), 0.5},
		{"NaN lambda", 0.5, math.NaN()},
		{"Inf E", math.Inf(1), 0.5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fi, err := FlowerIndex(tc.e, tc.lambda)
			assert.ErrorIs(t, err, dynamo.ErrInvalidMetric)
			assert.True(t, math.IsNaN(fi), "invalid result must be the distinguished NaN, not a default")
		})
	}
}
