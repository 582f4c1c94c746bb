package rig

import (
	"github.com/google/uuid"
)

// Node is one transform in a Humanoid hierarchy.
type Node struct {
	name   string
	parent *Node
	local  Orientation
}

// Name returns the node name.
func (n *Node) Name() string { return n.name }

// LocalRotation returns the rotation relative to the parent.
func (n *Node) LocalRotation() Orientation { return n.local }

// SetLocalRotation replaces the rotation relative to the parent.
func (n *Node) SetLocalRotation(o Orientation) { n.local = o }

// Rotation returns parentRotation·local.
func (n *Node) Rotation() Orientation {
	if n.parent == nil {
		return n.local
	}
	return n.parent.Rotation().Mul(n.local)
}

// SetRotation sets the rig-space rotation by solving for the local rotation.
func (n *Node) SetRotation(o Orientation) {
	if n.parent == nil {
		n.local = o
		return
	}
	n.local = n.parent.Rotation().Inverse().Mul(o)
}

// Humanoid is an in-memory skeleton: root → hips → upper arms and upper legs.
type Humanoid struct {
	id    string
	root  *Node
	bones [BoneCount]*Node
}

// NewHumanoid creates a skeleton with every bone except those in omit.
func NewHumanoid(omit ...Bone) *Humanoid {
	skip := [BoneCount]bool{}
	for _, b := range omit {
		if b.Valid() {
			skip[b] = true
		}
	}

	h := &Humanoid{
		id:   uuid.NewString(),
		root: &Node{name: "root", local: Identity()},
	}

	parent := h.root
	if !skip[Hips] {
		h.bones[Hips] = &Node{name: Hips.String(), parent: h.root, local: Identity()}
		parent = h.bones[Hips]
	}
	for b := LeftUpperArm; b < BoneCount; b++ {
		if skip[b] {
			continue
		}
		h.bones[b] = &Node{name: b.String(), parent: parent, local: Identity()}
	}
	return h
}

// ID returns the rig identity.
func (h *Humanoid) ID() string { return h.id }

// Root returns the root transform.
func (h *Humanoid) Root() *Node { return h.root }

// Node returns the node for b, or nil.
func (h *Humanoid) Node(b Bone) *Node {
	if !b.Valid() {
		return nil
	}
	return h.bones[b]
}

// Bone implements Skeleton.
func (h *Humanoid) Bone(b Bone) (Transform, bool) {
	n := h.Node(b)
	if n == nil {
		return nil, false
	}
	return n, true
}

// Frame returns the root's right/forward basis.
func (h *Humanoid) Frame() Frame {
	r := h.root.Rotation()
	return Frame{
		Right:   r.Rotate(AxisRight),
		Forward: r.Rotate(AxisForward),
	}
}

// LocalPose returns the local rotation of every bone; missing bones report identity.
func (h *Humanoid) LocalPose() [BoneCount]Orientation {
	var pose [BoneCount]Orientation
	for b, n := range h.bones {
		if n == nil {
			pose[b] = Identity()
			continue
		}
		pose[b] = n.local
	}
	return pose
}
