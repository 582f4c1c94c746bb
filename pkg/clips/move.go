package clips

import (
	"time"

	"github.com/teslashibe/go-sway/pkg/movement"
	"github.com/teslashibe/go-sway/pkg/rig"
)

// Move plays a clip on top of a base pose.
type Move struct {
	clip *Clip
	base movement.Pose
}

// NewMove creates a move that applies clip's offsets to base.
func NewMove(clip *Clip, base movement.Pose) *Move {
	return &Move{clip: clip, base: base}
}

// Name returns the clip name.
func (m *Move) Name() string {
	return m.clip.Name
}

// Duration returns the clip length. Looping clips report one cycle.
func (m *Move) Duration() time.Duration {
	return m.clip.Duration
}

// Evaluate returns base·offset for every bone the clip drives.
func (m *Move) Evaluate(t time.Duration) movement.Pose {
	offset := m.clip.Sample(t)
	pose := m.base
	for b := rig.Bone(0); b < rig.BoneCount; b++ {
		if offset.Mask[b] {
			pose = pose.With(b, m.base.Bone(b).Mul(offset.Bones[b]))
		}
	}
	return pose
}

// IsComplete reports whether a non-looping clip has finished.
func (m *Move) IsComplete(t time.Duration) bool {
	return !m.clip.Loop && t >= m.clip.Duration
}
