package physics

import (
	"math"

	"github.com/san-kum/floralyze/internal/dynamo"
)

// Thomas is the cyclically symmetric Thomas attractor, chaotic for
// damping b near 0.19.
type Thomas struct{ b float64 }

func NewThomas(b float64) *Thomas { return &Thomas{b: b} }

func (t *Thomas) StateDim() int { return 3 }

func (t *Thomas) Damping() float64 { return t.b }

// Derive calculates the Thomas attractor derivatives.
func (t *Thomas) Derive(s dynamo.State, _ float64) dynamo.State {
	return dynamo.State{
		math.Sin(s[1]) - t.b*s[0],
		math.Sin(s[2]) - t.b*s[1],
		math.Sin(s[0]) - t.b*s[2],
	}
}

func (t *Thomas) DefaultState() dynamo.State { return dynamo.State{1.0, 1.0, 1.0} }

func (t *Thomas) GetParams() map[string]float64 {
	return map[string]float64{"b": t.b}
}

func (t *Thomas) SetParam(n string, v float64) {
	if n == "b" {
		t.b = v
	}
}
