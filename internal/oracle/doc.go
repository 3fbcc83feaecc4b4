// Package oracle provides closed-form reference trajectories for turtle
// locomotion with exact analytic velocity and acceleration.
//
// Two oracle families are provided:
//
//   - [JointSpace]: three joint angles of the Cornelia turtle robot
//   - [TaskSpace]: flipper position (x, y, z) and twist angle of a swimming
//     green sea turtle
//
// Each family is built from [harmonic.Series] tables and shaped by a
// [Scale] (spatial factor sf, temporal factor sw) and an additive position
// [Vec3] offset. Velocity and acceleration are derived term by term, so
// they match the position function to floating point precision and can be
// used as ground truth for numerical differentiators, integrators and
// trajectory trackers.
//
// # Example
//
//	q, qd, qdd, err := oracle.JointSpaceTrajectoryFactory(1.0, 1.0, []float64{0, 0, 0})
//	if err != nil {
//	    return err
//	}
//	angles := q(0.5)
//
// # Thread Safety
//
// All returned values and closures are immutable and safe for concurrent use.
package oracle
