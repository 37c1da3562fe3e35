// Package dynamo provides core simulation primitives for dynamical systems.
//
// The package defines the fundamental interfaces and types for numerical
// integration of ordinary differential equations (ODEs):
//
//   - [State]: vector representing system state
//   - [System]: interface for autonomous ODE systems (dX/dt = f(X, t))
//   - [Integrator]: fixed-step numerical integrator interface
//   - [AdaptiveIntegrator]: error-controlled integrator interface
//
// # Example
//
//	sys := physics.NewThomas(0.19)
//	integ := integrators.NewRK45()
//	traj, err := sim.SampleTrajectory(sys, x0, 0, 300, 100000, sim.DefaultOptions())
//
// # Thread Safety
//
// All types in this package are values with no shared mutable state; a
// System may be used concurrently as long as its parameters are not
// mutated mid-run.
package dynamo
