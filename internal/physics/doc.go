// Package physics provides the dynamical system models under analysis.
//
// [Thomas] implements the [dynamo.System] interface with the cyclically
// symmetric sine-coupled equations
//
//	dx/dt = sin(y) − b·x
//	dy/dt = sin(z) − b·y
//	dz/dt = sin(x) − b·z
//
// where b is the damping parameter. The system is chaotic over a range of
// small positive b (the canonical chaotic value is b ≈ 0.19) and has the
// origin as a fixed point when b = 0 and the state starts at (0,0,0).
package physics
