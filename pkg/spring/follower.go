package spring

import "math"

// Follower is a first-order lag that trails the inverted lean, giving limbs a
// delayed counter-sway:
//
//	limb ← lerp(limb, −lean, 1 − exp(−lag·dt))
type Follower struct {
	Lag float64 // rate in 1/s; negative values are treated as zero

	z, x float64
}

// Step advances the follower toward the inverted lean.
func (f *Follower) Step(leanZ, leanX, dt float64) {
	lag := math.Max(f.Lag, 0)
	alpha := 1 - math.Exp(-lag*dt)
	f.z += (-leanZ - f.z) * alpha
	f.x += (-leanX - f.x) * alpha
}

// Limb returns the lagged roll (Z) and pitch (X) angles.
func (f *Follower) Limb() (z, x float64) {
	return f.z, f.x
}
