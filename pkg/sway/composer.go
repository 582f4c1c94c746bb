package sway

import "github.com/teslashibe/go-sway/pkg/rig"

const (
	spaceLocal = iota
	spaceWorld
	spaceCount
)

func spaceIndex(s Space) int {
	if s == SpaceWorld {
		return spaceWorld
	}
	return spaceLocal
}

// pending is the additive last applied to one bone in one family.
type pending struct {
	add rig.Orientation
	set bool
}

// composer applies additive rotations to resolved bones and remembers each
// one so it can be undone exactly.
//
// Additives go on in bone order (hips, arms, legs) and come off in reverse
// order, after everything is removed and before anything new is applied, so
// world-space writes through a hierarchy cancel exactly.
type composer struct {
	skeletonID string
	bound      bool
	bones      [rig.BoneCount]rig.Transform
	pending    [spaceCount][rig.BoneCount]pending
}

// bind resolves bones for s when its identity differs from the cached one.
// Records that belong to the previous skeleton are dropped, not undone.
// It reports whether a rebind happened.
func (c *composer) bind(s rig.Skeleton) bool {
	if s == nil {
		if !c.bound {
			return false
		}
		*c = composer{}
		return true
	}
	if c.bound && s.ID() == c.skeletonID {
		return false
	}

	*c = composer{skeletonID: s.ID(), bound: true}
	for b := rig.Bone(0); b < rig.BoneCount; b++ {
		if tr, ok := s.Bone(b); ok && tr != nil {
			c.bones[b] = tr
		}
	}
	return true
}

func (c *composer) hasHips() bool {
	return c.bound && c.bones[rig.Hips] != nil
}

// missing lists the bones the bound skeleton lacks.
func (c *composer) missing() []string {
	var out []string
	for b := rig.Bone(0); b < rig.BoneCount; b++ {
		if c.bones[b] == nil {
			out = append(out, b.String())
		}
	}
	return out
}

// outstanding counts recorded additives across both families.
func (c *composer) outstanding() int {
	n := 0
	for s := range c.pending {
		for b := range c.pending[s] {
			if c.pending[s][b].set {
				n++
			}
		}
	}
	return n
}

// retract undoes every recorded additive and returns how many records it
// cleared. It is idempotent.
func (c *composer) retract() int {
	n := 0
	for s := spaceCount - 1; s >= 0; s-- {
		for b := rig.BoneCount - 1; b >= 0; b-- {
			if c.undo(s, b) {
				n++
			}
		}
	}
	return n
}

func (c *composer) undo(space int, b rig.Bone) bool {
	p := c.pending[space][b]
	if !p.set {
		return false
	}
	c.pending[space][b] = pending{}

	tr := c.bones[b]
	if tr == nil || p.add.IsIdentity() {
		return true
	}

	inv := p.add.Inverse()
	switch space {
	case spaceWorld:
		tr.SetRotation(inv.Mul(tr.Rotation()))
	default:
		tr.SetLocalRotation(tr.LocalRotation().Mul(inv))
	}
	return true
}

// apply composes add onto b and records it. Identity or non-finite additives
// and absent bones are recorded as identity without touching the rig.
func (c *composer) apply(space Space, b rig.Bone, add rig.Orientation) {
	idx := spaceIndex(space)
	tr := c.bones[b]
	if tr == nil || add.IsIdentity() || !add.IsFinite() {
		c.pending[idx][b] = pending{add: rig.Identity(), set: true}
		return
	}

	switch idx {
	case spaceWorld:
		tr.SetRotation(add.Mul(tr.Rotation()))
	default:
		tr.SetLocalRotation(tr.LocalRotation().Mul(add))
	}
	c.pending[idx][b] = pending{add: add, set: true}
}
