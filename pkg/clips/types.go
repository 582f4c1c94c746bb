// Package clips provides recorded keyframe poses for the humanoid rig.
//
// A clip is a list of timestamped keyframes. Each keyframe holds Euler
// rotations in degrees per bone, relative to the pose the clip starts
// from. Clips are loaded from JSON and played as primary moves with
// interpolation between keyframes.
package clips

import (
	"time"

	"github.com/teslashibe/go-sway/pkg/movement"
)

// Euler is an x, y, z rotation in degrees.
type Euler [3]float64

// Keyframe maps bone names (snake_case) to rotations. Bones left out keep
// the starting pose.
type Keyframe map[string]Euler

// ClipData is the JSON layout of a clip file.
type ClipData struct {
	// Description is a human-readable description of the clip.
	Description string `json:"description"`

	// Time contains timestamps for each keyframe in seconds.
	Time []float64 `json:"time"`

	// Frames contains the keyframe for each timestamp.
	Frames []Keyframe `json:"frames"`

	// Loop restarts the clip instead of completing it.
	Loop bool `json:"loop,omitempty"`
}

// Clip is a loaded, playable clip.
type Clip struct {
	// Name is the identifier for this clip (e.g., "wave", "shrug2").
	Name string

	// Description explains what the clip shows.
	Description string

	// Duration is the total playback time.
	Duration time.Duration

	// Offsets holds one relative pose per keyframe. Only bones named in the
	// keyframe are masked.
	Offsets []movement.Pose

	// Timestamps holds the offset of each keyframe from the first.
	Timestamps []time.Duration

	// Loop restarts playback at the end.
	Loop bool
}

// Sample returns the interpolated offset pose at t.
func (c *Clip) Sample(t time.Duration) movement.Pose {
	n := len(c.Offsets)
	switch {
	case n == 0:
		return movement.Pose{}
	case n == 1 || t <= 0:
		return c.Offsets[0]
	}
	if c.Loop && c.Duration > 0 {
		t %= c.Duration
	}
	if t >= c.Duration {
		return c.Offsets[n-1]
	}

	// Find the segment containing t
	i := 0
	for i < n-2 && c.Timestamps[i+1] <= t {
		i++
	}
	span := c.Timestamps[i+1] - c.Timestamps[i]
	if span <= 0 {
		return c.Offsets[i+1]
	}
	u := float64(t-c.Timestamps[i]) / float64(span)
	return c.Offsets[i].Blend(c.Offsets[i+1], u)
}
