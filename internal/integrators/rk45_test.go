package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/floralyze/internal/dynamo"
)

type harmonicOscillator struct{}

func (h *harmonicOscillator) StateDim() int { return 2 }

func (h *harmonicOscillator) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func (h *harmonicOscillator) Energy(x dynamo.State) float64 {
	return 0.5 * (x[0]*x[0] + x[1]*x[1])
}

func TestRK45_Step(t *testing.T) {
	integ := NewRK45()
	sys := &harmonicOscillator{}
	x := dynamo.State{1.0, 0.0}
	dt := 0.01

	for i := 0; i < 1000; i++ {
		x = integ.Step(sys, x, float64(i)*dt, dt)
	}

	if !x.IsValid() {
		t.Error("RK45 produced invalid state")
	}

	wantX := math.Cos(1000 * dt)
	if math.Abs(x[0]-wantX) > 1e-6 {
		t.Errorf("position error too large: got %.8f, expected %.8f", x[0], wantX)
	}
}

func TestRK45_EnergyConservation(t *testing.T) {
	integ := NewRK45()
	sys := &harmonicOscillator{}
	x := dynamo.State{1.0, 0.0}

	initialEnergy := sys.Energy(x)
	dt := 0.01

	for i := 0; i < 10000; i++ {
		x = integ.Step(sys, x, float64(i)*dt, dt)
	}

	drift := math.Abs(sys.Energy(x)-initialEnergy) / initialEnergy
	if drift > 1e-6 {
		t.Errorf("RK45 energy drift too high: %e", drift)
	}
}

func TestRK45_StepAdaptive(t *testing.T) {
	integ := NewRK45()
	sys := &harmonicOscillator{}
	x0 := dynamo.State{1.0, 0.0}

	x, errNorm, dtNext := integ.StepAdaptive(sys, x0, 0, 0.01, 1e-6)

	if !x.IsValid() {
		t.Error("StepAdaptive produced invalid state")
	}
	if errNorm > 1 {
		t.Errorf("small step should satisfy tolerance, errNorm=%f", errNorm)
	}
	if dtNext <= 0 {
		t.Errorf("StepAdaptive returned invalid next dt: %f", dtNext)
	}
}

func TestRK45_RejectsCoarseStep(t *testing.T) {
	integ := NewRK45()
	sys := &harmonicOscillator{}
	x0 := dynamo.State{1.0, 0.0}

	// A full period in one step cannot meet a tight tolerance.
	_, errNorm, dtNext := integ.StepAdaptive(sys, x0, 0, 2*math.Pi, 1e-10)

	if errNorm <= 1 {
		t.Errorf("coarse step should exceed tolerance, errNorm=%f", errNorm)
	}
	if dtNext >= 2*math.Pi {
		t.Errorf("rejected step should shrink dt, got %f", dtNext)
	}
}

func TestEuler_Step(t *testing.T) {
	integ := NewEuler()
	sys := &harmonicOscillator{}
	x := dynamo.State{1.0, 0.0}

	x = integ.Step(sys, x, 0, 0.1)

	// Forward Euler: x += dt*v, v += dt*(-x).
	if math.Abs(x[0]-1.0) > 1e-15 {
		t.Errorf("x: got %v, want 1.0", x[0])
	}
	if math.Abs(x[1]-(-0.1)) > 1e-15 {
		t.Errorf("v: got %v, want -0.1", x[1])
	}
}
