package rig

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
)

const tol = 1e-9

func vecNear(t *testing.T, want, got r3.Vec) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, tol, "x")
	assert.InDelta(t, want.Y, got.Y, tol, "y")
	assert.InDelta(t, want.Z, got.Z, tol, "z")
}

func TestAngleAxis_RotatesRightHanded(t *testing.T) {
	q := AngleAxis(90, AxisForward)
	vecNear(t, AxisUp, q.Rotate(AxisRight))

	q = AngleAxis(90, AxisRight)
	vecNear(t, AxisForward, q.Rotate(AxisUp))
}

func TestAngleAxis_ZeroIsExactIdentity(t *testing.T) {
	assert.True(t, AngleAxis(0, AxisRight).IsIdentity())
	assert.True(t, AngleAxis(30, r3.Vec{}).IsIdentity())
	assert.True(t, FromEuler(0, 0, 0).IsIdentity())
}

func TestFromEuler_AppliesZThenXThenY(t *testing.T) {
	got := FromEuler(10, 20, 30)
	want := AngleAxis(20, AxisUp).Mul(AngleAxis(10, AxisRight)).Mul(AngleAxis(30, AxisForward))
	assert.True(t, got.ApproxEqual(want, 1e-9))
}

func TestInverse_RoundTrip(t *testing.T) {
	q := FromEuler(12.5, -40, 3.25)
	p := FromEuler(-7, 1, 88)

	assert.True(t, q.Mul(q.Inverse()).ApproxEqual(Identity(), 1e-9))
	assert.True(t, p.Mul(q).Mul(q.Inverse()).ApproxEqual(p, 1e-9))
	assert.True(t, q.Inverse().Mul(q.Mul(p)).ApproxEqual(p, 1e-9))
}

func TestAngle(t *testing.T) {
	assert.InDelta(t, 45, Identity().Angle(AngleAxis(45, AxisUp)), 1e-9)

	// q and -q are the same rotation.
	q := FromEuler(10, 0, 0)
	neg := Orientation{Real: -q.Real, Imag: -q.Imag, Jmag: -q.Jmag, Kmag: -q.Kmag}
	assert.InDelta(t, 0, q.Angle(neg), 1e-6)
}

func TestNlerp_Endpoints(t *testing.T) {
	a := FromEuler(0, 0, 0)
	b := FromEuler(0, 0, 60)

	assert.True(t, Nlerp(a, b, 0).ApproxEqual(a, 1e-9))
	assert.True(t, Nlerp(a, b, 1).ApproxEqual(b, 1e-9))

	mid := Nlerp(a, b, 0.5)
	assert.InDelta(t, 30, a.Angle(mid), 1e-6)
	assert.InDelta(t, 1, mid.Norm(), 1e-12)
}

func TestDegreesRadians(t *testing.T) {
	assert.InDelta(t, math.Pi, Radians(180), tol)
	assert.InDelta(t, 90, Degrees(math.Pi/2), tol)
}
