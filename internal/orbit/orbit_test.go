package orbit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-9

func TestCalculator_Advance(t *testing.T) {
	c := NewCalculator()
	require.Zero(t, c.Angle())

	c.Advance(0.5, false)
	assert.InDelta(t, 0.5, c.Angle(), tol)

	c.Advance(0.5, true)
	assert.InDelta(t, 0.5, c.Angle(), tol, "paused advance must not move the angle")

	c.Advance(0.25, false)
	assert.InDelta(t, 0.75, c.Angle(), tol)
}

func TestCalculator_AdvanceWrapsAtBound(t *testing.T) {
	c := &Calculator{angle: wrapBound - 0.005}
	c.Advance(0.01, false)

	assert.Less(t, c.Angle(), wrapBound)
	assert.InDelta(t, 0.005, c.Angle(), 1e-6)
}

func TestCalculator_Reset(t *testing.T) {
	c := NewCalculator()
	for i := 0; i < 100; i++ {
		c.Advance(0.03, false)
	}
	require.NotZero(t, c.ElapsedDays())

	c.Reset()
	assert.Zero(t, c.Angle())
	assert.Zero(t, c.ElapsedDays())
}

func TestElapsedDays(t *testing.T) {
	tests := []struct {
		name  string
		angle float64
		want  float64
	}{
		{"zero", 0, 0},
		{"half orbit", math.Pi, SiderealMonthDays / 2},
		{"one orbit", 2 * math.Pi, SiderealMonthDays},
		{"ten orbits", 20 * math.Pi, SiderealMonthDays * 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ElapsedDays(tt.angle), tol)
			// Same input, same output.
			assert.Equal(t, ElapsedDays(tt.angle), ElapsedDays(tt.angle))
		})
	}
}

func TestElapsedDays_MonotonicWhileRunning(t *testing.T) {
	c := NewCalculator()
	prev := c.ElapsedDays()
	for i := 0; i < 1000; i++ {
		c.Advance(BaseSpeed, false)
		got := c.ElapsedDays()
		if got < prev {
			t.Fatalf("tick %d: elapsed days went backwards: %v -> %v", i, prev, got)
		}
		prev = got
	}
}

func TestProjectTop_OnCircle(t *testing.T) {
	const dist, px = MeanDistance, 6.0
	want := (dist * px) * (dist * px)

	for _, angle := range []float64{0, 0.1, 1, math.Pi / 2, math.Pi, 4, 2 * math.Pi, -3.3, 1234.5} {
		x, y := ProjectTop(angle, dist, px)
		assert.InDelta(t, want, x*x+y*y, 1e-6, "angle %v", angle)
	}
}

func TestProjectTop_AtPi(t *testing.T) {
	x, y := ProjectTop(math.Pi, MeanDistance, 6)
	assert.InDelta(t, -MeanDistance*6, x, tol)
	assert.InDelta(t, 0, y, 1e-9)
}

func TestProjectSide(t *testing.T) {
	x, z := ProjectSide(math.Pi/2, MeanDistance, Inclination, 2)
	assert.InDelta(t, 0, x, 1e-9)
	assert.InDelta(t, math.Sin(Inclination)*MeanDistance*2, z, tol)

	// Side X always matches top X.
	for _, angle := range []float64{0, 0.7, 2.1, 5} {
		tx, _ := ProjectTop(angle, MeanDistance, 3)
		sx, _ := ProjectSide(angle, MeanDistance, Inclination, 3)
		assert.InDelta(t, tx, sx, tol)
	}
}

func TestProjectSide_ZeroTiltIsFlat(t *testing.T) {
	for _, angle := range []float64{0, 1, 2, 3} {
		_, z := ProjectSide(angle, MeanDistance, 0, 6)
		assert.Zero(t, z)
	}
}

func TestInclination(t *testing.T) {
	assert.InDelta(t, 5.14*math.Pi/180, Inclination, tol)
}

func TestWrapAngle(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{2 * math.Pi, 0},
		{-math.Pi / 2, 3 * math.Pi / 2},
		{5 * math.Pi, math.Pi},
	}
	for _, tt := range tests {
		got := WrapAngle(tt.in)
		assert.InDelta(t, tt.want, got, 1e-9, "WrapAngle(%v)", tt.in)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.Less(t, got, 2*math.Pi)
	}
}

func TestFormatDays(t *testing.T) {
	assert.Equal(t, "000.00_DAYS", FormatDays(0))
	assert.Equal(t, "013.66_DAYS", FormatDays(13.66))
	assert.Equal(t, "123.46_DAYS", FormatDays(123.456))
	assert.Equal(t, "1234.50_DAYS", FormatDays(1234.5))
}

func TestSpeedMultiplier(t *testing.T) {
	assert.InDelta(t, 1.0, SpeedMultiplier(BaseSpeed), tol)
	assert.InDelta(t, 2.5, SpeedMultiplier(0.025), tol)
	assert.Equal(t, "2.5x", FormatMultiplier(SpeedMultiplier(0.025)))
}
