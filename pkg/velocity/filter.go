package velocity

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// DefaultFilterRate is the smoothing rate k in 1/s.
const DefaultFilterRate = 12.0

// Filter is an exponential low-pass filter over 2D deltas:
// value ← lerp(value, raw, 1 − exp(−rate·dt)).
type Filter struct {
	Rate  float64
	value r2.Vec
}

// NewFilter creates a filter; a non-positive rate selects DefaultFilterRate.
func NewFilter(rate float64) *Filter {
	if rate <= 0 {
		rate = DefaultFilterRate
	}
	return &Filter{Rate: rate}
}

// Step folds raw into the filtered value and returns it.
func (f *Filter) Step(raw r2.Vec, dt float64) r2.Vec {
	if dt <= 0 {
		return f.value
	}
	alpha := 1 - math.Exp(-f.Rate*dt)
	f.value = r2.Add(f.value, r2.Scale(alpha, r2.Sub(raw, f.value)))
	return f.value
}

// Value returns the current filtered delta.
func (f *Filter) Value() r2.Vec { return f.value }

// Reset clears the filter memory.
func (f *Filter) Reset() { f.value = r2.Vec{} }
