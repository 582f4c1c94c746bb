package sway

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/teslashibe/go-sway/pkg/rig"
)

const frame = time.Second / 60

type fakeWindow struct {
	x, y int
	ok   bool
}

func (w *fakeWindow) WindowPosition() (int, int, bool) { return w.x, w.y, w.ok }

type fakePointer struct{ x, y float64 }

func (p *fakePointer) PointerPosition() (float64, float64) { return p.x, p.y }

// fixture is a humanoid driven by a state machine with a scripted window.
type fixture struct {
	h   *rig.Humanoid
	sm  *rig.StateMachine
	win *fakeWindow
	c   *Controller

	base [rig.BoneCount]rig.Orientation

	// host, when set, runs between Simulate and Compose like a primary
	// animation writing the pose.
	host func()
}

func newFixture(t *testing.T, cfg Config, omit ...rig.Bone) *fixture {
	t.Helper()

	f := &fixture{
		h:   rig.NewHumanoid(omit...),
		win: &fakeWindow{ok: true},
	}
	f.sm = rig.NewStateMachine(1, f.h)
	f.h.Root().SetLocalRotation(rig.AngleAxis(35, rig.AxisUp))

	poses := [rig.BoneCount]rig.Orientation{
		rig.Hips:          rig.FromEuler(4, 10, -3),
		rig.LeftUpperArm:  rig.FromEuler(0, 0, 70),
		rig.RightUpperArm: rig.FromEuler(0, 0, -70),
		rig.LeftUpperLeg:  rig.FromEuler(-5, 2, 0),
		rig.RightUpperLeg: rig.FromEuler(5, -2, 0),
	}
	for b := rig.Hips; b < rig.BoneCount; b++ {
		if n := f.h.Node(b); n != nil {
			n.SetLocalRotation(poses[b])
		}
	}
	f.base = f.h.LocalPose()

	f.c = New(cfg, WithAnimator(f.sm), WithWindowProbe(f.win))
	return f
}

func (f *fixture) drag(on bool) { f.sm.SetBool("isDragging", on) }

// run advances n frames, moving the window by (dx, dy) before each.
func (f *fixture) run(n, dx, dy int) {
	for i := 0; i < n; i++ {
		f.win.x += dx
		f.win.y += dy
		f.c.Simulate(frame)
		if f.host != nil {
			f.host()
		}
		f.c.Compose()
	}
}

// writeBase restores the base local pose, as a primary animation would.
func (f *fixture) writeBase() {
	for b := rig.Hips; b < rig.BoneCount; b++ {
		if n := f.h.Node(b); n != nil {
			n.SetLocalRotation(f.base[b])
		}
	}
}

func (f *fixture) requireAtBase(t *testing.T) {
	t.Helper()
	pose := f.h.LocalPose()
	for b := rig.Hips; b < rig.BoneCount; b++ {
		require.Truef(t, pose[b].ApproxEqual(f.base[b], 1e-9),
			"%s off base by %g°", b, pose[b].Angle(f.base[b]))
	}
}

func (f *fixture) offset(b rig.Bone) float64 {
	return f.h.Node(b).LocalRotation().Angle(f.base[b])
}
