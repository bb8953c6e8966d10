// Package orbit provides the Earth–Moon orbit math: the accumulating orbital
// angle, the two view projections, and lunar phase classification.
//
// The orbit is circular and parametrized by a single angle. The Sun is taken
// to lie far away along +X, so an angle of 0 puts the Moon between the Earth
// and the Sun (new moon) and an angle of π puts it behind the Earth (full moon).
package orbit

import (
	"fmt"
	"math"
)

// Physical constants, in Earth radii where a length is involved.
const (
	SiderealMonthDays = 27.32
	MeanDistance      = 60.27
	EarthRadius       = 1.0
	MoonRadius        = 0.273
	InclinationDeg    = 5.14
)

// Inclination is the orbital tilt relative to the ecliptic, in radians.
var Inclination = degToRad(InclinationDeg)

const (
	// WrapTurns bounds the accumulated angle to WrapTurns full orbits.
	WrapTurns = 10000

	// BaseSpeed is the per-tick angle increment shown as 1.0x.
	BaseSpeed = 0.01

	// BasePixelsPerRadius is the pixel scale at zoom 1.0.
	BasePixelsPerRadius = 6.0
)

const twoPi = 2 * math.Pi

// wrapBound is the modulus applied on every advance.
const wrapBound = twoPi * WrapTurns

// Calculator owns the accumulating orbital angle. It is not safe for
// concurrent use; state.Manager serializes access.
type Calculator struct {
	angle float64
}

// NewCalculator returns a calculator at angle 0.
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Advance adds speed to the angle unless paused.
func (c *Calculator) Advance(speed float64, paused bool) {
	if paused {
		return
	}
	c.angle = math.Mod(c.angle+speed, wrapBound)
}

// Reset sets the angle back to zero.
func (c *Calculator) Reset() {
	c.angle = 0
}

// Angle returns the accumulated angle in radians.
func (c *Calculator) Angle() float64 {
	return c.angle
}

// ElapsedDays returns the simulated days for the current angle.
func (c *Calculator) ElapsedDays() float64 {
	return ElapsedDays(c.angle)
}

// ElapsedDays converts an accumulated angle to simulated days.
func ElapsedDays(angle float64) float64 {
	return angle / twoPi * SiderealMonthDays
}

// ProjectTop projects the Moon onto the ecliptic plane seen from above.
func ProjectTop(angle, distance, pxPerUnit float64) (x, y float64) {
	r := distance * pxPerUnit
	return math.Cos(angle) * r, math.Sin(angle) * r
}

// ProjectSide projects the Moon onto a plane perpendicular to the ecliptic,
// exposing the orbital inclination as vertical displacement.
func ProjectSide(angle, distance, tilt, pxPerUnit float64) (x, z float64) {
	r := distance * pxPerUnit
	return math.Cos(angle) * r, math.Sin(angle) * math.Sin(tilt) * r
}

// SpeedMultiplier expresses a per-tick speed relative to BaseSpeed.
func SpeedMultiplier(speed float64) float64 {
	return speed / BaseSpeed
}

// FormatDays renders elapsed days as a zero-padded counter, e.g. "013.66_DAYS".
func FormatDays(days float64) string {
	return fmt.Sprintf("%06.2f_DAYS", days)
}

// FormatMultiplier renders a multiplier as "1.0x".
func FormatMultiplier(v float64) string {
	return fmt.Sprintf("%.1fx", v)
}

// WrapAngle normalizes an angle into [0, 2π).
func WrapAngle(angle float64) float64 {
	a := math.Mod(angle, twoPi)
	if a < 0 {
		a += twoPi
	}
	// Mod can return exactly 2π after the negative correction.
	if a >= twoPi {
		a = 0
	}
	return a
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
