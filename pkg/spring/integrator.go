// Package spring provides the damped oscillators that turn filtered input
// velocity into lean angles, and the lag follower that derives limb sway.
package spring

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/harmonica"
)

// MinFrequency is the floor applied to natural frequencies, in Hz.
const MinFrequency = 0.01

// Integrator advances a damped oscillator by dt seconds toward target.
// freq is the natural frequency in Hz and zeta the damping ratio.
type Integrator interface {
	Step(x, v, target, freq, zeta, dt float64) (float64, float64)
}

// Kind names an integrator.
type Kind string

const (
	// KindEuler is the semi-implicit Euler update.
	KindEuler Kind = "euler"
	// KindAnalytic uses the closed-form solution from harmonica.
	KindAnalytic Kind = "analytic"
)

// ParseKind parses an integrator name. Empty selects KindEuler.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindEuler, "":
		return KindEuler, nil
	case KindAnalytic:
		return KindAnalytic, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownIntegrator, s)
}

// NewIntegrator returns the integrator for kind, defaulting to Euler.
func NewIntegrator(kind Kind) Integrator {
	if kind == KindAnalytic {
		return &Analytic{}
	}
	return Euler{}
}

// AngularFrequency returns 2π·max(freq, MinFrequency).
func AngularFrequency(freq float64) float64 {
	return 2 * math.Pi * math.Max(freq, MinFrequency)
}

// StableStep returns the largest ω·dt a single Euler step may take at damping
// zeta. It is half the width of the stability region, 2/(ζ+√(ζ²+1)).
func StableStep(zeta float64) float64 {
	zeta = math.Max(zeta, 0)
	return 1 / (zeta + math.Sqrt(zeta*zeta+1))
}

// Euler integrates with
//
//	accel = ω²·(target − x) − 2·ζ·ω·v
//	v += accel·dt
//	x += v·dt
//
// It diverges once ω·dt leaves the stable region; Bank splits long frames
// into StableStep-sized substeps.
type Euler struct{}

// Step implements Integrator.
func (Euler) Step(x, v, target, freq, zeta, dt float64) (float64, float64) {
	w := AngularFrequency(freq)
	a := w*w*(target-x) - 2*zeta*w*v
	v += a * dt
	x += v * dt
	return x, v
}

// Analytic steps with harmonica's closed-form spring. Coefficients are
// recomputed only when dt, frequency or damping change.
type Analytic struct {
	spring harmonica.Spring
	dt     float64
	freq   float64
	zeta   float64
	ready  bool
}

// Step implements Integrator.
func (a *Analytic) Step(x, v, target, freq, zeta, dt float64) (float64, float64) {
	if dt <= 0 {
		return x, v
	}
	if !a.ready || a.dt != dt || a.freq != freq || a.zeta != zeta {
		a.spring = harmonica.NewSpring(dt, AngularFrequency(freq), math.Max(zeta, 0))
		a.dt, a.freq, a.zeta = dt, freq, zeta
		a.ready = true
	}
	return a.spring.Update(x, v, target)
}

// OvershootRatio returns the peak overshoot of an underdamped step response
// as a fraction of the step, exp(−πζ/√(1−ζ²)). It is zero for ζ ≥ 1.
func OvershootRatio(zeta float64) float64 {
	if zeta >= 1 {
		return 0
	}
	if zeta <= 0 {
		return 1
	}
	return math.Exp(-math.Pi * zeta / math.Sqrt(1-zeta*zeta))
}
