package orbit

import "math"

// PhaseName is one of the eight named lunar illumination states.
type PhaseName string

const (
	NewMoon        PhaseName = "NEW_MOON"
	WaxingCrescent PhaseName = "WAXING_CRESCENT"
	FirstQuarter   PhaseName = "FIRST_QUARTER"
	WaxingGibbous  PhaseName = "WAXING_GIBBOUS"
	FullMoon       PhaseName = "FULL_MOON"
	WaningGibbous  PhaseName = "WANING_GIBBOUS"
	LastQuarter    PhaseName = "LAST_QUARTER"
	WaningCrescent PhaseName = "WANING_CRESCENT"
)

// Phases lists the buckets in orbital order starting at new moon.
var Phases = []PhaseName{
	NewMoon,
	WaxingCrescent,
	FirstQuarter,
	WaxingGibbous,
	FullMoon,
	WaningGibbous,
	LastQuarter,
	WaningCrescent,
}

// phaseBucket is the upper bound (exclusive, degrees) of a bucket.
type phaseBucket struct {
	upTo float64
	name PhaseName
}

// Buckets are checked in order; anything at or past 348° wraps to new moon.
var phaseBuckets = []phaseBucket{
	{12, NewMoon},
	{78, WaxingCrescent},
	{102, FirstQuarter},
	{168, WaxingGibbous},
	{192, FullMoon},
	{258, WaningGibbous},
	{282, LastQuarter},
	{348, WaningCrescent},
}

// Phase is the derived lunar phase for an orbital angle.
type Phase struct {
	Name         PhaseName `json:"name"`
	Illumination float64   `json:"illumination"` // lit fraction, 0 = new, 1 = full
	AngleDeg     float64   `json:"angle_deg"`    // wrapped angle in [0, 360)
	Waxing       bool      `json:"waxing"`
}

// Index returns the bucket position in Phases, 0 for new moon.
func (p Phase) Index() int {
	return p.Name.Index()
}

// Index returns the position of the name in Phases, or -1 if unknown.
func (n PhaseName) Index() int {
	for i, name := range Phases {
		if name == n {
			return i
		}
	}
	return -1
}

// ComputePhase classifies an orbital angle into a phase bucket.
func ComputePhase(angle float64) Phase {
	wrapped := WrapAngle(angle)
	deg := radToDeg(wrapped)

	name := NewMoon
	for _, b := range phaseBuckets {
		if deg < b.upTo {
			name = b.name
			break
		}
	}

	return Phase{
		Name:         name,
		Illumination: (1 - math.Cos(wrapped)) / 2,
		AngleDeg:     deg,
		Waxing:       wrapped < math.Pi,
	}
}
