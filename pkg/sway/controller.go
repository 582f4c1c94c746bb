// Package sway implements a procedural secondary-motion layer that leans a
// humanoid rig while its window or pointer is being dragged.
//
// Each frame the host calls Simulate, writes its primary pose, then calls
// Compose. Simulate reads the gate flags and velocity, integrates the lean
// springs and the limb follower, and advances the blend weight. Compose
// removes the previous frame's additives and applies the new ones so the
// layer never accumulates into the pose.
//
// A Controller is not safe for concurrent use; drive it from one goroutine.
package sway

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teslashibe/go-sway/pkg/rig"
	"github.com/teslashibe/go-sway/pkg/spring"
	"github.com/teslashibe/go-sway/pkg/velocity"
)

// Controller is the sway layer for one rig.
type Controller struct {
	id  string
	log *zap.Logger
	cfg Config

	animator rig.Animator
	frame    func() rig.Frame
	window   velocity.WindowProbe
	pointer  velocity.PointerProbe

	source *velocity.Source
	filter *velocity.Filter
	bank   *spring.Bank
	limbs  spring.Follower
	weight Weight

	comp     composer
	gate     GateState
	filtered [2]float64
	enabled  bool
	tick     uint64
}

// Option configures a Controller.
type Option func(*Controller)

// WithAnimator binds the rig's animator.
func WithAnimator(a rig.Animator) Option {
	return func(c *Controller) { c.animator = a }
}

// WithWindowProbe sets the window-position probe.
func WithWindowProbe(p velocity.WindowProbe) Option {
	return func(c *Controller) { c.window = p }
}

// WithPointerProbe sets the pointer-position probe.
func WithPointerProbe(p velocity.PointerProbe) Option {
	return func(c *Controller) { c.pointer = p }
}

// WithReferenceFrame overrides the skeleton's right/forward axes used for
// world-space composition.
func WithReferenceFrame(f func() rig.Frame) Option {
	return func(c *Controller) { c.frame = f }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithID sets the controller ID reported in snapshots.
func WithID(id string) Option {
	return func(c *Controller) { c.id = id }
}

// New creates an enabled controller.
func New(cfg Config, opts ...Option) *Controller {
	c := &Controller{
		id:      uuid.NewString(),
		log:     zap.NewNop(),
		enabled: true,
	}
	for _, opt := range opts {
		opt(c)
	}

	cfg = cfg.Sanitized()
	c.cfg = cfg
	c.source = velocity.NewSource(c.window, c.pointer)
	c.source.Configure(cfg.Input.Mode, cfg.Input.PointerSensitivity)
	c.filter = velocity.NewFilter(cfg.Input.FilterRate)
	c.bank = spring.NewBank(cfg.Spring.Integrator, cfg.Spring.Frequency, cfg.Spring.DampingRatio)
	c.limbs.Lag = cfg.LimbLag
	c.source.Prime()

	c.log = c.log.With(zap.String("controller", c.id))
	return c
}

// ID returns the controller ID.
func (c *Controller) ID() string { return c.id }

// Config returns the active, sanitized configuration.
func (c *Controller) Config() Config { return c.cfg }

// Enabled reports whether the controller participates in frames.
func (c *Controller) Enabled() bool { return c.enabled }

// Bind swaps the animator. Records for the previous skeleton are dropped on
// the next tick rather than undone.
func (c *Controller) Bind(a rig.Animator) {
	c.animator = a
}

// Simulate runs the per-tick simulation: gate, velocity, springs, limbs and
// weight. It only refreshes the probe positions when the rig has no hips, and
// does nothing while disabled.
func (c *Controller) Simulate(dt time.Duration) {
	if !c.enabled {
		return
	}
	c.tick++
	if !c.ensureBones() {
		// Keep probe memories current so binding later does not read the
		// whole unbound stretch as one frame of motion.
		c.source.Prime()
		return
	}
	if c.cfg.RetractEveryTick {
		c.comp.retract()
	}

	seconds := dt.Seconds()
	c.gate = EvaluateGate(c.cfg.Gate, c.animator)

	raw := c.source.Sample(c.gate.Active, c.gate.Dragging)
	f := c.filter.Step(raw, seconds)
	c.filtered = [2]float64{f.X, f.Y}

	var targetZ, targetX float64
	if c.gate.Active {
		in := c.cfg.Input
		sp := c.cfg.Spring
		targetZ = spring.Target(f.X, horizontalSign(in.InvertHorizontal), sp.HorizontalGain, sp.MaxLeanZ)
		targetX = spring.Target(f.Y, verticalSign(in.InvertVertical), sp.VerticalGain, sp.MaxLeanX)
	}

	c.bank.Step(targetZ, targetX, seconds)
	leanZ, leanX := c.bank.Lean()
	c.limbs.Step(leanZ, leanX, seconds)
	c.weight.Step(c.gate.Active, c.cfg.Blend.In, c.cfg.Blend.Out, seconds)
}

// Compose replaces last frame's additives with this frame's. Call it after
// the primary pose has been written.
func (c *Controller) Compose() {
	if !c.enabled || !c.ensureBones() {
		return
	}

	c.comp.retract()
	if c.weight.Collapsed() {
		return
	}

	w := c.weight.Value()
	leanZ, leanX := c.bank.Lean()
	c.comp.apply(c.cfg.Space, rig.Hips, c.additive(leanX*w, leanZ*w))

	limbZ, limbX := c.limbs.Limb()
	c.composeLimbs(rig.Arms, c.cfg.Arms, limbZ, limbX, w)
	c.composeLimbs(rig.Legs, c.cfg.Legs, limbZ, limbX, w)
}

func (c *Controller) composeLimbs(bones [2]rig.Bone, lc LimbConfig, limbZ, limbX, w float64) {
	add := rig.Identity()
	if lc.Amount > 0 {
		sign := 1.0
		if lc.Invert {
			sign = -1
		}
		z := clamp(limbZ*lc.Amount, -lc.MaxZ, lc.MaxZ) * sign * w
		x := clamp(limbX*lc.Amount, -lc.MaxX, lc.MaxX) * sign * w
		add = c.additive(x, z)
	}
	for _, b := range bones {
		c.comp.apply(c.cfg.Space, b, add)
	}
}

// additive builds the rotation for pitch x and roll z, in degrees.
func (c *Controller) additive(x, z float64) rig.Orientation {
	if c.cfg.Space == SpaceWorld {
		f := c.referenceFrame()
		return rig.AngleAxis(x, f.Right).Mul(rig.AngleAxis(z, f.Forward))
	}
	return rig.FromEuler(x, 0, z)
}

func (c *Controller) referenceFrame() rig.Frame {
	if c.frame != nil {
		return c.frame()
	}
	if c.animator != nil {
		if s := c.animator.Skeleton(); s != nil {
			return s.Frame()
		}
	}
	return rig.DefaultFrame()
}

// ensureBones rebinds on skeleton identity change and reports whether the
// hips are available.
func (c *Controller) ensureBones() bool {
	var skel rig.Skeleton
	if c.animator != nil {
		skel = c.animator.Skeleton()
	}
	if c.comp.bind(skel) {
		if c.comp.bound {
			c.log.Info("skeleton bound",
				zap.String("skeleton", c.comp.skeletonID),
				zap.Strings("missing", c.comp.missing()))
		} else {
			c.log.Info("skeleton unbound")
		}
	}
	return c.comp.hasHips()
}

// Enable resumes the controller. Probe positions are re-primed so the first
// tick does not see the motion that happened while disabled.
func (c *Controller) Enable() {
	if c.enabled {
		return
	}
	c.enabled = true
	c.source.Prime()
	c.log.Debug("enabled")
}

// Disable removes all outstanding additives and stops the controller.
func (c *Controller) Disable() {
	if !c.enabled {
		return
	}
	n := c.comp.retract()
	c.enabled = false
	c.log.Debug("disabled", zap.Int("retracted", n))
}

// Retract removes all outstanding additives now.
func (c *Controller) Retract() int {
	return c.comp.retract()
}

// ApplyConfig replaces the configuration. Changing the space retracts both
// families first, so no additive is ever undone with the wrong composition.
func (c *Controller) ApplyConfig(cfg Config) {
	cfg = cfg.Sanitized()
	if cfg.Space != c.cfg.Space {
		n := c.comp.retract()
		c.log.Info("space changed",
			zap.String("from", string(c.cfg.Space)),
			zap.String("to", string(cfg.Space)),
			zap.Int("retracted", n))
	}
	if cfg.Spring.Integrator != c.cfg.Spring.Integrator {
		c.bank.SetIntegrator(cfg.Spring.Integrator)
	}

	c.source.Configure(cfg.Input.Mode, cfg.Input.PointerSensitivity)
	c.filter.Rate = cfg.Input.FilterRate
	c.bank.Frequency = cfg.Spring.Frequency
	c.bank.Damping = cfg.Spring.DampingRatio
	c.limbs.Lag = cfg.LimbLag
	c.cfg = cfg
	c.log.Debug("config applied")
}

func horizontalSign(invert bool) float64 {
	if invert {
		return 1
	}
	return -1
}

func verticalSign(invert bool) float64 {
	if invert {
		return -1
	}
	return 1
}
