package spring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dt = 1.0 / 60

func TestEuler_SingleStepMatchesFormula(t *testing.T) {
	x, v := Euler{}.Step(0, 0, -2.5, 2.6, 0.35, dt)

	w := 2 * math.Pi * 2.6
	wantV := w * w * -2.5 * dt
	assert.InDelta(t, wantV, v, 1e-12)
	assert.InDelta(t, wantV*dt, x, 1e-12)
}

func TestEuler_FrequencyFloor(t *testing.T) {
	x, v := Euler{}.Step(0, 0, 1, -3, 1, dt)
	assert.False(t, math.IsNaN(x) || math.IsInf(x, 0))
	assert.InDelta(t, AngularFrequency(MinFrequency)*AngularFrequency(MinFrequency)*dt, v, 1e-15)
}

// A constant target of −2.5° (delta 10, gain 0.25) under 2.6 Hz / ζ=0.35
// settles with one bounded overshoot.
func TestBank_UnderdampedStepResponse(t *testing.T) {
	for _, kind := range []Kind{KindEuler, KindAnalytic} {
		t.Run(string(kind), func(t *testing.T) {
			b := NewBank(kind, 2.6, 0.35)
			target := Target(10, -1, 0.25, 25)
			require.InDelta(t, -2.5, target, 1e-12)

			peak := 0.0
			for i := 0; i < 300; i++ {
				b.Step(target, 0, dt)
				z, _ := b.Lean()
				peak = math.Min(peak, z)
			}

			z, x := b.Lean()
			assert.InDelta(t, -2.5, z, 1e-3)
			assert.Zero(t, x)
			assert.Less(t, peak, -2.5, "underdamped response should overshoot")
			bound := 2.5 * (1 + OvershootRatio(0.35) + 0.1)
			assert.GreaterOrEqual(t, peak, -bound)
		})
	}
}

func TestBank_RelaxesToZero(t *testing.T) {
	b := NewBank(KindEuler, 2.6, 0.35)
	for i := 0; i < 60; i++ {
		b.Step(-10, 5, dt)
	}
	for i := 0; i < 300; i++ {
		b.Step(0, 0, dt)
	}
	z, x := b.Lean()
	assert.InDelta(t, 0, z, 1e-4)
	assert.InDelta(t, 0, x, 1e-4)
}

func TestBank_SetIntegratorKeepsState(t *testing.T) {
	b := NewBank(KindEuler, 2.6, 0.35)
	b.Step(5, 0, dt)
	before := b.Axis(AxisZ)

	b.SetIntegrator(KindAnalytic)
	assert.Equal(t, before, b.Axis(AxisZ))
}

func TestTarget_Clamps(t *testing.T) {
	assert.Equal(t, 25.0, Target(-1000, -1, 0.25, 25))
	assert.Equal(t, -12.0, Target(-1000, 1, 0.15, -12))
	assert.InDelta(t, 1.5, Target(10, 1, 0.15, 12), 1e-12)
}

func TestOvershootRatio(t *testing.T) {
	assert.InDelta(t, 0.3093, OvershootRatio(0.35), 1e-3)
	assert.Zero(t, OvershootRatio(1))
	assert.Zero(t, OvershootRatio(2))
	assert.Equal(t, 1.0, OvershootRatio(0))
}

func TestFollower_TrailsInvertedLean(t *testing.T) {
	f := Follower{Lag: 6}
	f.Step(4, -2, dt)

	z, x := f.Limb()
	alpha := 1 - math.Exp(-6*dt)
	assert.InDelta(t, -4*alpha, z, 1e-12)
	assert.InDelta(t, 2*alpha, x, 1e-12)

	for i := 0; i < 300; i++ {
		f.Step(4, -2, dt)
	}
	z, x = f.Limb()
	assert.InDelta(t, -4, z, 1e-6)
	assert.InDelta(t, 2, x, 1e-6)
}

func TestFollower_NegativeLagHolds(t *testing.T) {
	f := Follower{Lag: -3}
	f.Step(4, 4, dt)
	z, x := f.Limb()
	assert.Zero(t, z)
	assert.Zero(t, x)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("Analytic")
	require.NoError(t, err)
	assert.Equal(t, KindAnalytic, k)

	k, err = ParseKind("")
	require.NoError(t, err)
	assert.Equal(t, KindEuler, k)

	_, err = ParseKind("rk4")
	assert.ErrorIs(t, err, ErrUnknownIntegrator)
}

func TestStableStep(t *testing.T) {
	assert.InDelta(t, 1, StableStep(0), 1e-12)
	assert.InDelta(t, 1, StableStep(-2), 1e-12)
	assert.InDelta(t, 1/(0.35+math.Sqrt(0.35*0.35+1)), StableStep(0.35), 1e-12)
	assert.Less(t, StableStep(2), StableStep(0.35))
}

func TestBank_Substeps(t *testing.T) {
	b := NewBank(KindEuler, 2.6, 0.35)
	assert.Equal(t, 1, b.Substeps(dt))
	assert.Equal(t, 3, b.Substeps(0.1))
	assert.Equal(t, 1, b.Substeps(0))

	b.Frequency = math.NaN()
	assert.Equal(t, 1, b.Substeps(0.1))

	b.Frequency = 1e6
	assert.Equal(t, maxSubsteps, b.Substeps(0.1))

	assert.Equal(t, 1, NewBank(KindAnalytic, 2.6, 0.35).Substeps(0.1))
}

// Frames as long as the scheduler's 100ms cap must not blow up the default
// or bouncy tuning.
func TestBank_LongFramesStayBounded(t *testing.T) {
	cases := []struct {
		name       string
		freq, zeta float64
	}{
		{"default", 2.6, 0.35},
		{"gentle", 1.8, 0.9},
		{"bouncy", 3.2, 0.2},
	}
	for _, kind := range []Kind{KindEuler, KindAnalytic} {
		for _, tc := range cases {
			for _, step := range []float64{0.1, 0.25} {
				b := NewBank(kind, tc.freq, tc.zeta)
				peak := 0.0
				for i := 0; i < 200; i++ {
					b.Step(25, -12, step)
					z, _ := b.Lean()
					peak = math.Max(peak, math.Abs(z))
				}

				z, x := b.Lean()
				bound := 25 * (1 + OvershootRatio(tc.zeta) + 0.15)
				assert.LessOrEqualf(t, peak, bound, "%s/%s dt=%v", kind, tc.name, step)
				assert.InDeltaf(t, 25, z, 1e-3, "%s/%s dt=%v", kind, tc.name, step)
				assert.InDeltaf(t, -12, x, 1e-3, "%s/%s dt=%v", kind, tc.name, step)
			}
		}
	}
}
