package oracle

import "github.com/crush-robotics/turtle-locomotion-oracles/internal/harmonic"

// JointSpace is the joint angle oracle of a three joint flipper.
type JointSpace struct {
	scale  Scale
	offset Vec3
	joints [3]harmonic.Signal
}

// NewJointSpace builds the Cornelia joint space oracle.
func NewJointSpace(scale Scale, qOff Vec3) (*JointSpace, error) {
	return NewJointSpaceWithGait(scale, qOff, CorneliaGait)
}

// NewJointSpaceWithGait builds a joint space oracle from a custom gait table.
func NewJointSpaceWithGait(scale Scale, qOff Vec3, gait JointGait) (*JointSpace, error) {
	if err := scale.Validate(); err != nil {
		return nil, err
	}
	if err := qOff.validateOffset(); err != nil {
		return nil, err
	}
	sigs, err := composeAll("joint", gait[:], scale)
	if err != nil {
		return nil, err
	}
	j := &JointSpace{scale: scale, offset: qOff}
	copy(j.joints[:], sigs)
	return j, nil
}

func (j *JointSpace) Scale() Scale    { return j.scale }
func (j *JointSpace) Offset() Vec3    { return j.offset }
func (j *JointSpace) Period() float64 { return j.scale.Period() }

// Q returns the joint angles at t.
func (j *JointSpace) Q(t float64) Vec3 {
	return j.eval(0, t).Add(j.offset)
}

// QD returns the joint velocities at t.
func (j *JointSpace) QD(t float64) Vec3 {
	return j.eval(1, t)
}

// QDD returns the joint accelerations at t.
func (j *JointSpace) QDD(t float64) Vec3 {
	return j.eval(2, t)
}

func (j *JointSpace) eval(order int, t float64) Vec3 {
	return Vec3{
		j.joints[0].Derivative(order, t),
		j.joints[1].Derivative(order, t),
		j.joints[2].Derivative(order, t),
	}
}

// Funcs returns the oracle as three closures.
func (j *JointSpace) Funcs() (q, qd, qdd VectorFunc) {
	return j.Q, j.QD, j.QDD
}

// Channel returns the joint angle trajectory as a generic channel.
func (j *JointSpace) Channel() Channel {
	ch := vectorChannel("q", "rad", []string{"q1", "q2", "q3"}, j.Period(), j.Q, j.QD, j.QDD)
	ch.Bound = boundOf(j.joints[:]...)
	return ch
}

// JointSpaceTrajectoryFactory returns the Cornelia joint space oracle as a
// (q, q_d, q_dd) triple. qOff must have three components or be nil.
func JointSpaceTrajectoryFactory(sf, sw float64, qOff []float64) (q, qd, qdd VectorFunc, err error) {
	off, err := OffsetFromSlice(qOff)
	if err != nil {
		return nil, nil, nil, err
	}
	j, err := NewJointSpace(Scale{SF: sf, SW: sw}, off)
	if err != nil {
		return nil, nil, nil, err
	}
	q, qd, qdd = j.Funcs()
	return q, qd, qdd, nil
}
