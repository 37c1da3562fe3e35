package projection

import (
	"fmt"
	"math"

	"github.com/san-kum/floralyze/internal/dynamo"
)

// Plane selects which coordinate pair of the (rotated) 3-D state is
// projected onto.
type Plane int

const (
	PlaneXY Plane = iota
	PlaneYZ
	PlaneZX
)

func ParsePlane(s string) (Plane, error) {
	switch s {
	case "xy":
		return PlaneXY, nil
	case "yz":
		return PlaneYZ, nil
	case "zx":
		return PlaneZX, nil
	}
	return 0, fmt.Errorf("projection: unknown plane %q (want xy|yz|zx)", s)
}

func (p Plane) String() string {
	switch p {
	case PlaneXY:
		return "xy"
	case PlaneYZ:
		return "yz"
	case PlaneZX:
		return "zx"
	}
	return "?"
}

// Axis names a rotation axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func ParseAxis(s string) (Axis, error) {
	switch s {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	case "z":
		return AxisZ, nil
	}
	return 0, fmt.Errorf("projection: unknown axis %q (want x|y|z)", s)
}

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return "?"
}

// Rotation is a right-handed rotation about Axis by Angle radians, applied
// to the 3-D state before plane selection. The zero value is the identity.
type Rotation struct {
	Axis  Axis
	Angle float64
}

// Apply rotates the state. States with fewer than 3 components are
// returned unchanged.
func (r Rotation) Apply(s dynamo.State) dynamo.State {
	if len(s) < 3 || r.Angle == 0 {
		return s.Clone()
	}
	sin, cos := math.Sincos(r.Angle)
	x, y, z := s[0], s[1], s[2]
	switch r.Axis {
	case AxisX:
		return dynamo.State{x, cos*y - sin*z, sin*y + cos*z}
	case AxisY:
		return dynamo.State{cos*x + sin*z, y, -sin*x + cos*z}
	default:
		return dynamo.State{cos*x - sin*y, sin*x + cos*y, z}
	}
}

// PolarSample is one trajectory point in polar form: radius >= 0 and
// angle in (-pi, pi].
type PolarSample struct {
	Radius float64
	Angle  float64
}

// Polar converts states to polar samples in the chosen plane. It is a pure
// function: the input is never mutated and the output length always equals
// the input length.
func Polar(states []dynamo.State, plane Plane, rot Rotation) []PolarSample {
	out := make([]PolarSample, len(states))
	for i, s := range states {
		rs := rot.Apply(s)
		var u, v float64
		switch plane {
		case PlaneXY:
			u, v = rs[0], rs[1]
		case PlaneYZ:
			u, v = rs[1], rs[2]
		default:
			u, v = rs[2], rs[0]
		}
		angle := math.Atan2(v, u)
		if angle == -math.Pi {
			angle = math.Pi
		}
		out[i] = PolarSample{
			Radius: math.Hypot(u, v),
			Angle:  angle,
		}
	}
	return out
}
