package oracle

import (
	"fmt"
	"math"
)

// Vec3 is a fixed three component vector of joint angles or positions.
type Vec3 [3]float64

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v[0] * s, v[1] * s, v[2] * s} }
func (v Vec3) Norm() float64        { return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2]) }

// Slice returns the components as a new slice.
func (v Vec3) Slice() []float64 {
	return []float64{v[0], v[1], v[2]}
}

func (v Vec3) String() string {
	return fmt.Sprintf("[%.6g %.6g %.6g]", v[0], v[1], v[2])
}

// OffsetFromSlice converts a caller supplied offset. A nil slice is the zero
// offset; any other length than 3 is rejected.
func OffsetFromSlice(s []float64) (Vec3, error) {
	if s == nil {
		return Vec3{}, nil
	}
	if len(s) != 3 {
		return Vec3{}, &ConfigError{Field: "offset", Value: len(s), Wrapped: fmt.Errorf("%w: expected 3 components", ErrInvalidOffset)}
	}
	v := Vec3{s[0], s[1], s[2]}
	return v, v.validateOffset()
}

func (v Vec3) validateOffset() error {
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return &ConfigError{Field: fmt.Sprintf("offset[%d]", i), Value: x, Wrapped: ErrInvalidOffset}
		}
	}
	return nil
}
