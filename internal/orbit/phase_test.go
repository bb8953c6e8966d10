package orbit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputePhase_Buckets(t *testing.T) {
	tests := []struct {
		deg  float64
		want PhaseName
	}{
		{0, NewMoon},
		{5, NewMoon},
		{11.5, NewMoon},
		{12.5, WaxingCrescent},
		{45, WaxingCrescent},
		{77.5, WaxingCrescent},
		{78.5, FirstQuarter},
		{90, FirstQuarter},
		{101.5, FirstQuarter},
		{102.5, WaxingGibbous},
		{135, WaxingGibbous},
		{167.5, WaxingGibbous},
		{168.5, FullMoon},
		{180, FullMoon},
		{191.5, FullMoon},
		{192.5, WaningGibbous},
		{225, WaningGibbous},
		{257.5, WaningGibbous},
		{258.5, LastQuarter},
		{270, LastQuarter},
		{281.5, LastQuarter},
		{282.5, WaningCrescent},
		{315, WaningCrescent},
		{347.5, WaningCrescent},
		{348.5, NewMoon},
		{359.9, NewMoon},
	}

	for _, tt := range tests {
		got := ComputePhase(degToRad(tt.deg))
		assert.Equal(t, tt.want, got.Name, "%.1f°", tt.deg)
	}
}

func TestComputePhase_FullCircleMatchesZero(t *testing.T) {
	assert.Equal(t, ComputePhase(0).Name, ComputePhase(2*math.Pi).Name)
	assert.Equal(t, ComputePhase(math.Pi).Name, ComputePhase(3*math.Pi).Name)
	assert.Equal(t, ComputePhase(1.0).Name, ComputePhase(1.0+20*math.Pi).Name)
}

func TestComputePhase_NegativeAngle(t *testing.T) {
	p := ComputePhase(-math.Pi / 2)
	assert.Equal(t, LastQuarter, p.Name)
	assert.InDelta(t, 270, p.AngleDeg, 1e-9)
	assert.False(t, p.Waxing)
}

func TestComputePhase_Illumination(t *testing.T) {
	tests := []struct {
		angle float64
		want  float64
	}{
		{0, 0},
		{math.Pi / 2, 0.5},
		{math.Pi, 1},
		{3 * math.Pi / 2, 0.5},
	}
	for _, tt := range tests {
		p := ComputePhase(tt.angle)
		assert.InDelta(t, tt.want, p.Illumination, 1e-9, "angle %v", tt.angle)
		assert.GreaterOrEqual(t, p.Illumination, 0.0)
		assert.LessOrEqual(t, p.Illumination, 1.0)
	}
}

func TestComputePhase_AtPiIsFull(t *testing.T) {
	p := ComputePhase(math.Pi)
	assert.Equal(t, FullMoon, p.Name)
	assert.Equal(t, 4, p.Index())
}

func TestComputePhase_Waxing(t *testing.T) {
	assert.True(t, ComputePhase(0.5).Waxing)
	assert.True(t, ComputePhase(3).Waxing)
	assert.False(t, ComputePhase(3.5).Waxing)
	assert.False(t, ComputePhase(6).Waxing)
}

func TestPhaseName_Index(t *testing.T) {
	for i, name := range Phases {
		assert.Equal(t, i, name.Index())
	}
	assert.Equal(t, -1, PhaseName("BLUE_MOON").Index())
}
