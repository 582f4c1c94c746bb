// Package rig describes the humanoid skeleton and animation-state provider the
// sway layer composes onto.
//
// The interfaces are kept small so a host animation system only has to expose
// what the controller reads: boolean parameters, the current state name per
// layer, and per-bone orientations. Humanoid and StateMachine are in-memory
// implementations used by the CLI and by tests.
package rig

import "gonum.org/v1/gonum/spatial/r3"

// Transform is a mutable bone orientation owned by the host animation system.
type Transform interface {
	// LocalRotation returns the rotation relative to the parent bone.
	LocalRotation() Orientation
	SetLocalRotation(o Orientation)

	// Rotation returns the rotation in rig space.
	Rotation() Orientation
	SetRotation(o Orientation)
}

// Frame is the right/forward basis used for world-space composition.
type Frame struct {
	Right   r3.Vec
	Forward r3.Vec
}

// DefaultFrame returns the unrotated rig basis.
func DefaultFrame() Frame {
	return Frame{Right: AxisRight, Forward: AxisForward}
}

// Skeleton resolves bones by semantic identifier.
type Skeleton interface {
	// ID changes whenever a different rig is bound.
	ID() string

	// Bone returns the transform for b, or false when the rig lacks it.
	Bone(b Bone) (Transform, bool)

	// Frame returns the root's right/forward basis.
	Frame() Frame
}

// StateProvider exposes animator parameters and state names.
type StateProvider interface {
	Bool(name string) bool
	CurrentStateName(layer int) string
	LayerCount() int
}

// Animator is the external animation system: state flags plus the skeleton it
// drives. Skeleton returns nil while no rig is bound.
type Animator interface {
	StateProvider
	Skeleton() Skeleton
}

var (
	_ Skeleton = (*Humanoid)(nil)
	_ Animator = (*StateMachine)(nil)
)
