package movement

import (
	"math"
	"time"

	"github.com/teslashibe/go-sway/pkg/rig"
)

// ============================================================
// BreathingMove - Continuous idle breathing animation
// ============================================================

// BreathingMove layers a gentle breathing cycle over a rest pose.
type BreathingMove struct {
	rest      Pose
	frequency float64 // Cycles per second
	pitchAmp  float64 // Hips pitch amplitude in degrees
	rollAmp   float64 // Hips roll amplitude in degrees
	armAmp    float64 // Arm swing amplitude in degrees
}

// NewBreathingMove creates a breathing animation around rest.
func NewBreathingMove(rest Pose) *BreathingMove {
	return &BreathingMove{
		rest:      rest,
		frequency: 0.3, // ~3 second breath cycle
		pitchAmp:  1.5,
		rollAmp:   0.6,
		armAmp:    2.5,
	}
}

// Name returns "breathing".
func (m *BreathingMove) Name() string {
	return "breathing"
}

// Duration returns 0 (infinite).
func (m *BreathingMove) Duration() time.Duration {
	return 0
}

// Evaluate returns the breathing pose at time t.
func (m *BreathingMove) Evaluate(t time.Duration) Pose {
	phase := t.Seconds() * m.frequency * 2 * math.Pi

	pitch := m.pitchAmp * math.Sin(phase)
	roll := m.rollAmp * math.Sin(phase*0.7) // Slightly different frequency
	arms := m.armAmp * math.Sin(phase*1.2)

	p := m.rest
	p = p.With(rig.Hips, m.rest.Bone(rig.Hips).Mul(rig.FromEuler(pitch, 0, roll)))
	p = p.With(rig.LeftUpperArm, m.rest.Bone(rig.LeftUpperArm).Mul(rig.FromEuler(0, 0, arms)))
	p = p.With(rig.RightUpperArm, m.rest.Bone(rig.RightUpperArm).Mul(rig.FromEuler(0, 0, -arms))) // Opposite directions
	return p
}

// IsComplete always returns false (continuous).
func (m *BreathingMove) IsComplete(t time.Duration) bool {
	return false
}

// ============================================================
// IdleMove - Holds a static pose
// ============================================================

// IdleMove holds a static pose (e.g., the rest pose).
type IdleMove struct {
	pose Pose
}

// NewIdleMove creates a static pose move.
func NewIdleMove(pose Pose) *IdleMove {
	return &IdleMove{pose: pose}
}

// NewNeutralMove creates an idle move at the neutral pose.
func NewNeutralMove() *IdleMove {
	return &IdleMove{pose: Zero()}
}

// Name returns "idle".
func (m *IdleMove) Name() string {
	return "idle"
}

// Duration returns 0 (infinite).
func (m *IdleMove) Duration() time.Duration {
	return 0
}

// Evaluate returns the static pose.
func (m *IdleMove) Evaluate(t time.Duration) Pose {
	return m.pose
}

// IsComplete always returns false.
func (m *IdleMove) IsComplete(t time.Duration) bool {
	return false
}

// ============================================================
// InterpolatedMove - Smooth transition between poses
// ============================================================

// InterpolatedMove smoothly transitions from start to end pose.
type InterpolatedMove struct {
	start    Pose
	end      Pose
	duration time.Duration
}

// NewInterpolatedMove creates a smooth transition.
func NewInterpolatedMove(start, end Pose, duration time.Duration) *InterpolatedMove {
	return &InterpolatedMove{
		start:    start,
		end:      end,
		duration: duration,
	}
}

// Name returns "interpolate".
func (m *InterpolatedMove) Name() string {
	return "interpolate"
}

// Duration returns the transition duration.
func (m *InterpolatedMove) Duration() time.Duration {
	return m.duration
}

// Evaluate returns the interpolated pose at time t.
func (m *InterpolatedMove) Evaluate(t time.Duration) Pose {
	if t >= m.duration {
		return m.end
	}
	return m.start.Blend(m.end, smoothstep(t.Seconds()/m.duration.Seconds()))
}

// IsComplete returns true when transition is done.
func (m *InterpolatedMove) IsComplete(t time.Duration) bool {
	return t >= m.duration
}

// smoothstep provides smooth easing (slow start/end).
func smoothstep(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t * t * (3 - 2*t)
}
