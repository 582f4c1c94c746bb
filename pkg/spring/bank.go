package spring

import "math"

// maxSubsteps bounds the Euler work per Bank.Step at extreme frequencies.
const maxSubsteps = 256

// Axis indexes the two lean oscillators.
type Axis int

const (
	// AxisZ is roll, the sideways lean driven by horizontal motion.
	AxisZ Axis = iota
	// AxisX is pitch, the fore/aft lean driven by vertical motion.
	AxisX

	axisCount
)

// Oscillator is one (position, velocity) pair.
type Oscillator struct {
	X float64
	V float64
}

// Bank holds the roll and pitch oscillators and shares one integrator
// between them.
type Bank struct {
	Frequency float64 // natural frequency, Hz
	Damping   float64 // damping ratio ζ

	kind        Kind
	integrators [axisCount]Integrator
	axes        [axisCount]Oscillator
}

// NewBank creates a bank at rest.
func NewBank(kind Kind, frequency, damping float64) *Bank {
	b := &Bank{Frequency: frequency, Damping: damping}
	b.SetIntegrator(kind)
	return b
}

// SetIntegrator swaps the integration scheme, keeping the current state.
func (b *Bank) SetIntegrator(kind Kind) {
	b.kind = kind
	// Analytic integrators cache coefficients, so each axis gets its own.
	for i := range b.integrators {
		b.integrators[i] = NewIntegrator(kind)
	}
}

// Step advances both axes toward their targets. Euler banks take as many
// equal substeps as needed to keep each one within StableStep.
func (b *Bank) Step(targetZ, targetX, dt float64) {
	targets := [axisCount]float64{AxisZ: targetZ, AxisX: targetX}
	n := b.Substeps(dt)
	h := dt / float64(n)
	for i := range b.axes {
		o := &b.axes[i]
		for s := 0; s < n; s++ {
			o.X, o.V = b.integrators[i].Step(o.X, o.V, targets[i], b.Frequency, b.Damping, h)
		}
	}
}

// Substeps returns how many integrator steps Step takes for dt.
func (b *Bank) Substeps(dt float64) int {
	if b.kind == KindAnalytic || dt <= 0 {
		return 1
	}
	n := math.Ceil(AngularFrequency(b.Frequency) * dt / StableStep(b.Damping))
	switch {
	case !(n > 1): // also NaN
		return 1
	case n > maxSubsteps:
		return maxSubsteps
	}
	return int(n)
}

// Lean returns the current roll (Z) and pitch (X) angles.
func (b *Bank) Lean() (z, x float64) {
	return b.axes[AxisZ].X, b.axes[AxisX].X
}

// Axis returns the oscillator state for a.
func (b *Bank) Axis(a Axis) Oscillator {
	return b.axes[a]
}

// Target maps a filtered input component to a lean target:
// clamp(sign·input·gain, −limit, +limit).
func Target(input, sign, gain, limit float64) float64 {
	limit = math.Abs(limit)
	return clamp(sign*input*gain, -limit, limit)
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
