package rig

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Orientation is a rotation quaternion. Imag, Jmag and Kmag hold the x, y and z
// components; Real holds w.
type Orientation quat.Number

// Axes of the rig's reference space: +X right, +Y up, +Z forward.
var (
	AxisRight   = r3.Vec{X: 1}
	AxisUp      = r3.Vec{Y: 1}
	AxisForward = r3.Vec{Z: 1}
)

// Identity returns the rotation that leaves every vector unchanged.
func Identity() Orientation {
	return Orientation{Real: 1}
}

// AngleAxis returns a rotation of deg degrees about axis. A zero axis yields
// the identity.
func AngleAxis(deg float64, axis r3.Vec) Orientation {
	if deg == 0 || r3.Norm(axis) == 0 {
		return Identity()
	}
	return Orientation(r3.NewRotation(Radians(deg), axis))
}

// FromEuler builds a rotation from Euler angles in degrees. Z is applied
// first, then X, then Y.
func FromEuler(xDeg, yDeg, zDeg float64) Orientation {
	qx := AngleAxis(xDeg, AxisRight)
	qy := AngleAxis(yDeg, AxisUp)
	qz := AngleAxis(zDeg, AxisForward)
	return qy.Mul(qx).Mul(qz)
}

// Mul returns o·p, the rotation p followed by o.
func (o Orientation) Mul(p Orientation) Orientation {
	return Orientation(quat.Mul(quat.Number(o), quat.Number(p)))
}

// Inverse returns the rotation that undoes o.
func (o Orientation) Inverse() Orientation {
	if o.IsIdentity() {
		return o
	}
	return Orientation(quat.Inv(quat.Number(o)))
}

// IsIdentity reports whether o is exactly the identity rotation.
func (o Orientation) IsIdentity() bool {
	return o == Orientation{Real: 1}
}

// IsFinite reports whether every component of o is a finite number.
func (o Orientation) IsFinite() bool {
	q := quat.Number(o)
	return !quat.IsNaN(q) && !quat.IsInf(q)
}

// Norm returns the quaternion magnitude.
func (o Orientation) Norm() float64 {
	return quat.Abs(quat.Number(o))
}

// Normalize returns o scaled to unit length.
func (o Orientation) Normalize() Orientation {
	n := o.Norm()
	if n == 0 {
		return Identity()
	}
	return Orientation(quat.Scale(1/n, quat.Number(o)))
}

// Dot returns the four-component dot product of o and p.
func (o Orientation) Dot(p Orientation) float64 {
	return o.Real*p.Real + o.Imag*p.Imag + o.Jmag*p.Jmag + o.Kmag*p.Kmag
}

// Angle returns the angle in degrees between two rotations.
func (o Orientation) Angle(p Orientation) float64 {
	r := quat.Mul(quat.Conj(quat.Number(o.Normalize())), quat.Number(p.Normalize()))
	v := math.Sqrt(r.Imag*r.Imag + r.Jmag*r.Jmag + r.Kmag*r.Kmag)
	return Degrees(2 * math.Atan2(v, math.Abs(r.Real)))
}

// ApproxEqual reports whether o and p differ by at most tolDeg degrees.
// q and -q describe the same rotation.
func (o Orientation) ApproxEqual(p Orientation, tolDeg float64) bool {
	return o.Angle(p) <= tolDeg
}

// Rotate applies o to v.
func (o Orientation) Rotate(v r3.Vec) r3.Vec {
	return r3.Rotation(o.Normalize()).Rotate(v)
}

// Nlerp blends a toward b by t along the shorter arc and renormalizes.
func Nlerp(a, b Orientation, t float64) Orientation {
	if a.Dot(b) < 0 {
		b = Orientation(quat.Scale(-1, quat.Number(b)))
	}
	q := quat.Add(quat.Scale(1-t, quat.Number(a)), quat.Scale(t, quat.Number(b)))
	return Orientation(q).Normalize()
}

// Degrees converts radians to degrees.
func Degrees(radians float64) float64 {
	return radians * 180.0 / math.Pi
}

// Radians converts degrees to radians.
func Radians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}
