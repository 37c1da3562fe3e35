// Package analysis provides chaos characterization tools.
//
//   - [LyapunovEstimate]: largest Lyapunov exponent via two-trajectory
//     separation with logarithmic renormalization
//   - [FlowerIndex]: combined floral-symmetry score from fit error and
//     divergence rate
//
// A positive exponent estimate indicates chaotic dynamics:
//
//	lambda := analysis.ThomasLyapunov(0.19, analysis.DefaultLyapunovOptions())
//	if lambda > 0 {
//	    // System is chaotic
//	}
package analysis
