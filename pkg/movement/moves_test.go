package movement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/teslashibe/go-sway/pkg/rig"
)

func TestPose_ApplySkipsUnmaskedAndMissing(t *testing.T) {
	h := rig.NewHumanoid(rig.LeftUpperLeg)
	h.Node(rig.RightUpperLeg).SetLocalRotation(rig.FromEuler(0, 0, 5))

	p := Pose{}.
		With(rig.Hips, rig.FromEuler(10, 0, 0)).
		With(rig.LeftUpperLeg, rig.FromEuler(20, 0, 0))
	p.Apply(h)

	assert.Equal(t, rig.FromEuler(10, 0, 0), h.Node(rig.Hips).LocalRotation())
	assert.Equal(t, rig.FromEuler(0, 0, 5), h.Node(rig.RightUpperLeg).LocalRotation())
	assert.NotPanics(t, func() { p.Apply(nil) })
}

func TestCapture(t *testing.T) {
	h := rig.NewHumanoid(rig.Hips)
	h.Node(rig.LeftUpperArm).SetLocalRotation(rig.FromEuler(0, 0, 60))

	p := Capture(h)
	assert.False(t, p.Mask[rig.Hips])
	assert.True(t, p.Mask[rig.LeftUpperArm])
	assert.Equal(t, rig.FromEuler(0, 0, 60), p.Bones[rig.LeftUpperArm])
	assert.Equal(t, rig.Identity(), p.Bone(rig.Hips))
}

func TestPose_Blend(t *testing.T) {
	a := Zero()
	b := Zero().With(rig.Hips, rig.FromEuler(0, 0, 40))

	mid := a.Blend(b, 0.5)
	assert.InDelta(t, 20, mid.Bones[rig.Hips].Angle(rig.Identity()), 1e-9)

	partial := Pose{}.With(rig.Hips, rig.FromEuler(0, 0, 40))
	out := Pose{}.Blend(partial, 0.25)
	assert.True(t, out.Mask[rig.Hips])
	assert.Equal(t, partial.Bones[rig.Hips], out.Bones[rig.Hips])
	assert.False(t, out.Mask[rig.LeftUpperArm])
}

func TestInterpolatedMove(t *testing.T) {
	start := Zero()
	end := Zero().With(rig.Hips, rig.FromEuler(30, 0, 0))
	m := NewInterpolatedMove(start, end, time.Second)

	assert.Equal(t, time.Second, m.Duration())
	assert.True(t, m.Evaluate(0).Bones[rig.Hips].ApproxEqual(rig.Identity(), 1e-9))
	assert.InDelta(t, 15, m.Evaluate(500*time.Millisecond).Bones[rig.Hips].Angle(rig.Identity()), 1e-9)
	assert.Equal(t, end, m.Evaluate(2*time.Second))
	assert.False(t, m.IsComplete(999*time.Millisecond))
	assert.True(t, m.IsComplete(time.Second))
}

func TestBreathingMove(t *testing.T) {
	m := NewBreathingMove(Pose{})
	assert.Zero(t, m.Duration())
	assert.False(t, m.IsComplete(time.Hour))

	p0 := m.Evaluate(0)
	assert.True(t, p0.Bones[rig.Hips].ApproxEqual(rig.Identity(), 1e-9))
	assert.False(t, p0.Mask[rig.LeftUpperLeg], "legs are left to the rest pose")

	p := m.Evaluate(800 * time.Millisecond)
	assert.Greater(t, p.Bones[rig.Hips].Angle(rig.Identity()), 0.5)
	assert.InDelta(t,
		p.Bones[rig.LeftUpperArm].Angle(rig.Identity()),
		p.Bones[rig.RightUpperArm].Angle(rig.Identity()), 1e-9)
}

func TestIdleMove(t *testing.T) {
	pose := Zero().With(rig.Hips, rig.FromEuler(3, 0, 0))
	m := NewIdleMove(pose)
	assert.Equal(t, "idle", m.Name())
	assert.Equal(t, pose, m.Evaluate(time.Minute))
	assert.False(t, m.IsComplete(time.Minute))
}
