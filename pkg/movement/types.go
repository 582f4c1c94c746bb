// Package movement drives a rig one frame at a time.
// It implements a primary/secondary architecture where:
// - Primary moves (idle, breathing, transitions) write the base pose
// - Secondary layers (sway) compose additive rotations on top
// - The Manager runs simulate → primary → compose on a single goroutine
package movement

import (
	"time"

	"github.com/teslashibe/go-sway/pkg/rig"
)

// Pose is a local rotation per bone. Only bones set in Mask are written.
type Pose struct {
	Bones [rig.BoneCount]rig.Orientation
	Mask  [rig.BoneCount]bool
}

// Zero returns the neutral pose: every bone at identity.
func Zero() Pose {
	var p Pose
	for b := range p.Bones {
		p.Bones[b] = rig.Identity()
		p.Mask[b] = true
	}
	return p
}

// Capture reads the current local pose of every bone s has.
func Capture(s rig.Skeleton) Pose {
	var p Pose
	for b := rig.Bone(0); b < rig.BoneCount; b++ {
		p.Bones[b] = rig.Identity()
		if s == nil {
			continue
		}
		if tr, ok := s.Bone(b); ok {
			p.Bones[b] = tr.LocalRotation()
			p.Mask[b] = true
		}
	}
	return p
}

// Bone returns the rotation for b, or identity when the pose does not drive it.
func (p Pose) Bone(b rig.Bone) rig.Orientation {
	if !b.Valid() || !p.Mask[b] {
		return rig.Identity()
	}
	return p.Bones[b]
}

// With returns a copy with bone b set to o.
func (p Pose) With(b rig.Bone, o rig.Orientation) Pose {
	if b.Valid() {
		p.Bones[b] = o
		p.Mask[b] = true
	}
	return p
}

// Blend interpolates toward q by t. A bone is driven if either pose drives it.
func (p Pose) Blend(q Pose, t float64) Pose {
	out := p
	for b := range p.Bones {
		switch {
		case p.Mask[b] && q.Mask[b]:
			out.Bones[b] = rig.Nlerp(p.Bones[b], q.Bones[b], t)
		case q.Mask[b]:
			out.Bones[b] = q.Bones[b]
		}
		out.Mask[b] = p.Mask[b] || q.Mask[b]
	}
	return out
}

// Apply writes the masked bones onto s. Bones s lacks are skipped.
func (p Pose) Apply(s rig.Skeleton) {
	if s == nil {
		return
	}
	for b := rig.Bone(0); b < rig.BoneCount; b++ {
		if !p.Mask[b] {
			continue
		}
		if tr, ok := s.Bone(b); ok {
			tr.SetLocalRotation(p.Bones[b])
		}
	}
}

// Move represents an animation that provides poses over time.
// Moves are "primary" - they write the base pose of the rig.
type Move interface {
	// Name returns the move identifier (for logging).
	Name() string

	// Duration returns the total duration of the move.
	// Returns 0 for infinite/continuous moves.
	Duration() time.Duration

	// Evaluate returns the pose at time t since move start.
	Evaluate(t time.Duration) Pose

	// IsComplete returns true when the move has finished.
	IsComplete(t time.Duration) bool
}

// Layer is a secondary motion source composed on top of the primary pose.
// Simulate runs before the primary pose is written, Compose after.
type Layer interface {
	Simulate(dt time.Duration)
	Compose()
}

// SkeletonSource returns the skeleton the primary pose is written to.
// rig.Animator satisfies it.
type SkeletonSource interface {
	Skeleton() rig.Skeleton
}

// Frame describes one completed step.
type Frame struct {
	Tick uint64
	Dt   time.Duration
	Move string
}
