package sway

import "github.com/teslashibe/go-sway/pkg/velocity"

// Status summarizes what the controller did on its last tick.
type Status string

const (
	StatusDisabled Status = "disabled"
	StatusUnbound  Status = "unbound" // no animator or skeleton
	StatusNoHips   Status = "no_hips"
	StatusIdle     Status = "idle"
	StatusBlending Status = "blending" // gate closed, weight still above zero
	StatusActive   Status = "active"
)

// Snapshot is a point-in-time view of the controller, for telemetry.
type Snapshot struct {
	ID         string        `json:"id"`
	Status     Status        `json:"status"`
	Tick       uint64        `json:"tick"`
	Space      Space         `json:"space"`
	InputMode  velocity.Mode `json:"input_mode"`
	SkeletonID string        `json:"skeleton_id,omitempty"`
	Missing    []string      `json:"missing,omitempty"`

	Gate GateState `json:"gate"`

	FilteredX float64 `json:"filtered_x"`
	FilteredY float64 `json:"filtered_y"`
	LeanZ     float64 `json:"lean_z"`
	LeanX     float64 `json:"lean_x"`
	LimbZ     float64 `json:"limb_z"`
	LimbX     float64 `json:"limb_x"`
	Weight    float64 `json:"weight"`
	Pending   int     `json:"pending"`
}

// Snapshot captures the current state. Call it from the goroutine that drives
// the controller.
func (c *Controller) Snapshot() Snapshot {
	s := Snapshot{
		ID:         c.id,
		Tick:       c.tick,
		Space:      c.cfg.Space,
		InputMode:  c.source.Mode(),
		SkeletonID: c.comp.skeletonID,
		Gate:       c.gate,
		FilteredX:  c.filtered[0],
		FilteredY:  c.filtered[1],
		Weight:     c.weight.Value(),
		Pending:    c.comp.outstanding(),
	}
	s.LeanZ, s.LeanX = c.bank.Lean()
	s.LimbZ, s.LimbX = c.limbs.Limb()
	if c.comp.bound {
		s.Missing = c.comp.missing()
	}

	switch {
	case !c.enabled:
		s.Status = StatusDisabled
	case !c.comp.bound:
		s.Status = StatusUnbound
	case !c.comp.hasHips():
		s.Status = StatusNoHips
	case c.gate.Active:
		s.Status = StatusActive
	case !c.weight.Collapsed():
		s.Status = StatusBlending
	default:
		s.Status = StatusIdle
	}
	return s
}
