package sway

import (
	"fmt"
	"math"
	"strings"

	"github.com/teslashibe/go-sway/pkg/spring"
	"github.com/teslashibe/go-sway/pkg/velocity"
)

// Space selects where additive rotations are composed.
type Space string

const (
	// SpaceLocal composes orientation·additive on each bone's local rotation.
	SpaceLocal Space = "local"
	// SpaceWorld composes additive·orientation about the reference right/forward axes.
	SpaceWorld Space = "world"
)

// ParseSpace parses a space name.
func ParseSpace(s string) (Space, error) {
	switch Space(strings.ToLower(strings.TrimSpace(s))) {
	case SpaceLocal, "":
		return SpaceLocal, nil
	case SpaceWorld:
		return SpaceWorld, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSpace, s)
}

// Config holds all tunable parameters for the sway controller.
type Config struct {
	Space Space `toml:"space" json:"space"`

	Input  InputConfig  `toml:"input" json:"input"`
	Spring SpringConfig `toml:"spring" json:"spring"`
	Blend  BlendConfig  `toml:"blend" json:"blend"`

	Arms    LimbConfig `toml:"arms" json:"arms"`
	Legs    LimbConfig `toml:"legs" json:"legs"`
	LimbLag float64    `toml:"limb_lag" json:"limb_lag"` // 1/s

	Gate GateConfig `toml:"gate" json:"gate"`

	// RetractEveryTick undoes the previous frame's additives at the start of
	// every simulate tick, before the host animation writes the pose.
	RetractEveryTick bool `toml:"retract_every_tick" json:"retract_every_tick"`
}

// InputConfig selects and shapes the velocity signal.
type InputConfig struct {
	Mode               velocity.Mode `toml:"mode" json:"mode"`
	PointerSensitivity float64       `toml:"pointer_sensitivity" json:"pointer_sensitivity"`
	InvertHorizontal   bool          `toml:"invert_horizontal" json:"invert_horizontal"`
	InvertVertical     bool          `toml:"invert_vertical" json:"invert_vertical"`
	FilterRate         float64       `toml:"filter_rate" json:"filter_rate"` // 1/s
}

// SpringConfig tunes the lean oscillators. Angles are in degrees.
type SpringConfig struct {
	Integrator     spring.Kind `toml:"integrator" json:"integrator"`
	Frequency      float64     `toml:"frequency" json:"frequency"` // Hz
	DampingRatio   float64     `toml:"damping_ratio" json:"damping_ratio"`
	HorizontalGain float64     `toml:"horizontal_gain" json:"horizontal_gain"` // degrees per pixel
	VerticalGain   float64     `toml:"vertical_gain" json:"vertical_gain"`
	MaxLeanZ       float64     `toml:"max_lean_z" json:"max_lean_z"`
	MaxLeanX       float64     `toml:"max_lean_x" json:"max_lean_x"`
}

// BlendConfig sets how fast the effect weight moves, in weight per second.
type BlendConfig struct {
	In  float64 `toml:"in" json:"in"`
	Out float64 `toml:"out" json:"out"`
}

// LimbConfig tunes one limb pair. Amount 0 disables it.
type LimbConfig struct {
	Amount float64 `toml:"amount" json:"amount"`
	Invert bool    `toml:"invert" json:"invert"`
	MaxZ   float64 `toml:"max_z" json:"max_z"`
	MaxX   float64 `toml:"max_x" json:"max_x"`
}

// GateConfig names the animator parameters that open the gate and the
// optional state whitelist.
type GateConfig struct {
	DraggingParam       string   `toml:"dragging_param" json:"dragging_param"`
	SittingParam        string   `toml:"sitting_param" json:"sitting_param"`
	DisableWhileSitting bool     `toml:"disable_while_sitting" json:"disable_while_sitting"`
	UseWhitelist        bool     `toml:"use_whitelist" json:"use_whitelist"`
	AllowedStates       []string `toml:"allowed_states" json:"allowed_states"`
	StateLayer          int      `toml:"state_layer" json:"state_layer"`
}

// DefaultConfig returns the recommended configuration.
func DefaultConfig() Config {
	return Config{
		Space: SpaceLocal,

		Input: InputConfig{
			Mode:               velocity.ModeEither,
			PointerSensitivity: 0.6,
			FilterRate:         velocity.DefaultFilterRate,
		},

		Spring: SpringConfig{
			Integrator:     spring.KindEuler,
			Frequency:      2.6,
			DampingRatio:   0.35, // visible wobble
			HorizontalGain: 0.25,
			VerticalGain:   0.15,
			MaxLeanZ:       25,
			MaxLeanX:       12,
		},

		// Blending out runs at double speed.
		Blend: BlendConfig{In: 8, Out: 16},

		Arms:    LimbConfig{Amount: 0, MaxZ: 18, MaxX: 8},
		Legs:    LimbConfig{Amount: 0, MaxZ: 12, MaxX: 6},
		LimbLag: 6,

		Gate: GateConfig{
			DraggingParam:       "isDragging",
			SittingParam:        "isWindowSit",
			DisableWhileSitting: true,
			AllowedStates:       []string{"Drag"},
		},

		RetractEveryTick: true,
	}
}

// GentleConfig returns a configuration with a softer, fully damped lean.
func GentleConfig() Config {
	cfg := DefaultConfig()
	cfg.Spring.Frequency = 1.8
	cfg.Spring.DampingRatio = 0.9
	cfg.Spring.HorizontalGain = 0.18
	cfg.Spring.VerticalGain = 0.1
	cfg.Blend = BlendConfig{In: 4, Out: 8}
	return cfg
}

// BouncyConfig returns a configuration with pronounced wobble and limb sway.
func BouncyConfig() Config {
	cfg := DefaultConfig()
	cfg.Spring.Frequency = 3.2
	cfg.Spring.DampingRatio = 0.2
	cfg.Spring.HorizontalGain = 0.35
	cfg.Arms.Amount = 0.6
	cfg.Legs.Amount = 0.3
	cfg.LimbLag = 4
	return cfg
}

// Preset returns a named configuration: "default", "gentle" or "bouncy".
func Preset(name string) (Config, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "default":
		return DefaultConfig(), nil
	case "gentle":
		return GentleConfig(), nil
	case "bouncy":
		return BouncyConfig(), nil
	}
	return Config{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

// Sanitized returns a copy with invalid values clamped to safe ones. NaN and
// infinite numbers fall back to their defaults.
func (c Config) Sanitized() Config {
	def := DefaultConfig()

	if s, err := ParseSpace(string(c.Space)); err == nil {
		c.Space = s
	} else {
		c.Space = def.Space
	}

	if m, err := velocity.ParseMode(string(c.Input.Mode)); err == nil {
		c.Input.Mode = m
	} else {
		c.Input.Mode = def.Input.Mode
	}
	c.Input.PointerSensitivity = finite(c.Input.PointerSensitivity, def.Input.PointerSensitivity)
	c.Input.FilterRate = finite(c.Input.FilterRate, def.Input.FilterRate)
	if c.Input.FilterRate <= 0 {
		c.Input.FilterRate = velocity.DefaultFilterRate
	}

	if k, err := spring.ParseKind(string(c.Spring.Integrator)); err == nil {
		c.Spring.Integrator = k
	} else {
		c.Spring.Integrator = def.Spring.Integrator
	}
	sp, dsp := &c.Spring, def.Spring
	sp.Frequency = math.Max(finite(sp.Frequency, dsp.Frequency), spring.MinFrequency)
	sp.DampingRatio = math.Max(finite(sp.DampingRatio, dsp.DampingRatio), 0)
	sp.HorizontalGain = finite(sp.HorizontalGain, dsp.HorizontalGain)
	sp.VerticalGain = finite(sp.VerticalGain, dsp.VerticalGain)
	sp.MaxLeanZ = math.Abs(finite(sp.MaxLeanZ, dsp.MaxLeanZ))
	sp.MaxLeanX = math.Abs(finite(sp.MaxLeanX, dsp.MaxLeanX))

	c.Blend.In = math.Max(finite(c.Blend.In, def.Blend.In), 0)
	c.Blend.Out = finite(c.Blend.Out, def.Blend.Out)
	if c.Blend.Out <= 0 {
		c.Blend.Out = 2 * c.Blend.In
	}

	c.Arms = c.Arms.sanitized(def.Arms)
	c.Legs = c.Legs.sanitized(def.Legs)
	c.LimbLag = math.Max(finite(c.LimbLag, def.LimbLag), 0)

	if c.Gate.DraggingParam == "" {
		c.Gate.DraggingParam = def.Gate.DraggingParam
	}
	if c.Gate.SittingParam == "" {
		c.Gate.SittingParam = def.Gate.SittingParam
	}
	if c.Gate.StateLayer < 0 {
		c.Gate.StateLayer = 0
	}
	c.Gate.AllowedStates = append([]string(nil), c.Gate.AllowedStates...)

	return c
}

func (l LimbConfig) sanitized(def LimbConfig) LimbConfig {
	l.Amount = clamp(finite(l.Amount, def.Amount), 0, 1)
	l.MaxZ = math.Abs(finite(l.MaxZ, def.MaxZ))
	l.MaxX = math.Abs(finite(l.MaxX, def.MaxX))
	return l
}

func finite(v, def float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
