package main

import (
	"math"
	"time"

	"github.com/teslashibe/go-sway/pkg/rig"
)

// Demo drag timing: drag for dragFor, then rest for restFor.
const (
	demoDragFor = 2 * time.Second
	demoRestFor = 2 * time.Second
	demoSpeed   = 900.0 // peak window speed, px/s
)

// demoDrag is a layer that fakes a user dragging the window back and forth.
// It must run before the controller so the flag and position it writes are
// seen in the same frame.
type demoDrag struct {
	animator *rig.StateMachine
	param    string
	elapsed  time.Duration
	x, y     float64
}

func newDemoDrag(animator *rig.StateMachine, param string) *demoDrag {
	return &demoDrag{animator: animator, param: param}
}

// WindowPosition implements velocity.WindowProbe.
func (d *demoDrag) WindowPosition() (int, int, bool) {
	return int(math.Round(d.x)), int(math.Round(d.y)), true
}

func (d *demoDrag) Simulate(dt time.Duration) {
	d.elapsed += dt
	phase := d.elapsed % (demoDragFor + demoRestFor)
	dragging := phase < demoDragFor
	d.animator.SetBool(d.param, dragging)
	if !dragging {
		return
	}

	s := dt.Seconds()
	u := phase.Seconds() / demoDragFor.Seconds()
	d.x += demoSpeed * math.Sin(2*math.Pi*u) * s
	d.y += demoSpeed / 3 * math.Sin(4*math.Pi*u) * s
}

func (d *demoDrag) Compose() {}
