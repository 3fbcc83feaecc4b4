package oracle

import "github.com/crush-robotics/turtle-locomotion-oracles/internal/harmonic"

// TaskSpace is the flipper tip position and twist angle oracle of a
// swimming sea turtle. The offset shifts the position only.
type TaskSpace struct {
	scale    Scale
	offset   Vec3
	position [3]harmonic.Signal
	twist    harmonic.Signal
}

// NewTaskSpace builds the green sea turtle task space oracle.
func NewTaskSpace(scale Scale, xOff Vec3) (*TaskSpace, error) {
	return NewTaskSpaceWithStroke(scale, xOff, GreenSeaTurtleStroke)
}

// NewTaskSpaceWithStroke builds a task space oracle from a custom stroke.
func NewTaskSpaceWithStroke(scale Scale, xOff Vec3, stroke Stroke) (*TaskSpace, error) {
	if err := scale.Validate(); err != nil {
		return nil, err
	}
	if err := xOff.validateOffset(); err != nil {
		return nil, err
	}
	pos, err := composeAll("position", stroke.Position[:], scale)
	if err != nil {
		return nil, err
	}
	twist, err := composeAll("twist", []harmonic.Series{stroke.Twist}, scale)
	if err != nil {
		return nil, err
	}
	ts := &TaskSpace{scale: scale, offset: xOff, twist: twist[0]}
	copy(ts.position[:], pos)
	return ts, nil
}

func (ts *TaskSpace) Scale() Scale    { return ts.scale }
func (ts *TaskSpace) Offset() Vec3    { return ts.offset }
func (ts *TaskSpace) Period() float64 { return ts.scale.Period() }

// X returns the flipper position at t.
func (ts *TaskSpace) X(t float64) Vec3 {
	return ts.eval(0, t).Add(ts.offset)
}

// XD returns the flipper velocity at t.
func (ts *TaskSpace) XD(t float64) Vec3 {
	return ts.eval(1, t)
}

// XDD returns the flipper acceleration at t.
func (ts *TaskSpace) XDD(t float64) Vec3 {
	return ts.eval(2, t)
}

func (ts *TaskSpace) Theta(t float64) float64   { return ts.twist.Position(t) }
func (ts *TaskSpace) ThetaD(t float64) float64  { return ts.twist.Velocity(t) }
func (ts *TaskSpace) ThetaDD(t float64) float64 { return ts.twist.Acceleration(t) }

func (ts *TaskSpace) eval(order int, t float64) Vec3 {
	return Vec3{
		ts.position[0].Derivative(order, t),
		ts.position[1].Derivative(order, t),
		ts.position[2].Derivative(order, t),
	}
}

// Funcs returns the oracle as six closures.
func (ts *TaskSpace) Funcs() (x, xd, xdd VectorFunc, th, thd, thdd ScalarFunc) {
	return ts.X, ts.XD, ts.XDD, ts.Theta, ts.ThetaD, ts.ThetaDD
}

// Channels returns the position and twist trajectories as generic channels.
func (ts *TaskSpace) Channels() []Channel {
	pos := vectorChannel("x", "m", []string{"x", "y", "z"}, ts.Period(), ts.X, ts.XD, ts.XDD)
	pos.Bound = boundOf(ts.position[:]...)
	twist := scalarChannel("theta", "rad", "theta", ts.Period(), ts.Theta, ts.ThetaD, ts.ThetaDD)
	twist.Bound = boundOf(ts.twist)
	return []Channel{pos, twist}
}

// TaskSpaceTrajectoryFactory returns the green sea turtle task space oracle
// as (x, x_d, x_dd, th, th_d, th_dd). xOff must have three components or be
// nil.
func TaskSpaceTrajectoryFactory(sf, sw float64, xOff []float64) (x, xd, xdd VectorFunc, th, thd, thdd ScalarFunc, err error) {
	off, err := OffsetFromSlice(xOff)
	if err != nil {
		return nil, nil, nil, nil, nil, nil, err
	}
	ts, err := NewTaskSpace(Scale{SF: sf, SW: sw}, off)
	if err != nil {
		return nil, nil, nil, nil, nil, nil, err
	}
	x, xd, xdd, th, thd, thdd = ts.Funcs()
	return x, xd, xdd, th, thd, thdd, nil
}
