package sway

// WeightEpsilon is the weight at or below which the composer retracts
// everything instead of composing near-zero rotations.
const WeightEpsilon = 1e-4

// Weight is the 0..1 effect blend.
type Weight struct {
	value float64
}

// Step moves the weight toward 1 at rateIn while active and toward 0 at
// rateOut otherwise, by at most rate·dt, and returns it.
func (w *Weight) Step(active bool, rateIn, rateOut, dt float64) float64 {
	target, rate := 0.0, rateOut
	if active {
		target, rate = 1, rateIn
	}
	w.value = moveTowards(w.value, target, rate*dt)
	return w.value
}

// Value returns the current weight.
func (w *Weight) Value() float64 { return w.value }

// Collapsed reports whether the weight is at or below WeightEpsilon.
func (w *Weight) Collapsed() bool { return w.value <= WeightEpsilon }

func moveTowards(current, target, maxDelta float64) float64 {
	if maxDelta < 0 {
		maxDelta = 0
	}
	if d := target - current; d > maxDelta {
		return current + maxDelta
	} else if d < -maxDelta {
		return current - maxDelta
	}
	return target
}
