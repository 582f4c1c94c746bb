package rig

// Bone identifies one of the humanoid bones the sway layer can drive.
type Bone int

const (
	Hips Bone = iota
	LeftUpperArm
	RightUpperArm
	LeftUpperLeg
	RightUpperLeg

	// BoneCount is the number of addressable bones.
	BoneCount
)

var boneNames = [BoneCount]string{
	Hips:          "hips",
	LeftUpperArm:  "left_upper_arm",
	RightUpperArm: "right_upper_arm",
	LeftUpperLeg:  "left_upper_leg",
	RightUpperLeg: "right_upper_leg",
}

// String returns the snake_case bone name.
func (b Bone) String() string {
	if b < 0 || b >= BoneCount {
		return "unknown"
	}
	return boneNames[b]
}

// Valid reports whether b addresses a known bone.
func (b Bone) Valid() bool {
	return b >= 0 && b < BoneCount
}

// Arms and Legs list the limb bones in composition order.
var (
	Arms = [2]Bone{LeftUpperArm, RightUpperArm}
	Legs = [2]Bone{LeftUpperLeg, RightUpperLeg}
)

// ParseBone returns the bone with the given snake_case name.
func ParseBone(name string) (Bone, bool) {
	for b, n := range boneNames {
		if n == name {
			return Bone(b), true
		}
	}
	return 0, false
}
