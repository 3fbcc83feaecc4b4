// Package analysis provides frequency analysis of sampled trajectories.
//
//   - [PowerSpectrum]: magnitude of the non-negative frequency bins
//   - [Analyze]: mean removal and bin resolution
//
// # Period Check
//
// The dominant frequency of an oracle channel sampled over whole cycles is
// its fundamental sw/(2*pi):
//
//	spec, _ := analysis.Analyze(column, dt)
//	period := 1 / spec.Dominant()
package analysis
