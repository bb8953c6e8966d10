// Package state provides thread-safe simulation state for the application.
package state

import (
	"math"
	"sync"
	"time"

	"github.com/litescript/ls-lunar/internal/orbit"
)

// EventType represents the type of state change event.
type EventType string

const (
	EventPhaseChange EventType = "PHASE_CHANGE"
	EventPaused      EventType = "PAUSED"
	EventResumed     EventType = "RESUMED"
	EventReset       EventType = "RESET"
)

// Event represents a notable change in the simulation.
type Event struct {
	Type        EventType       `json:"type"`
	Timestamp   time.Time       `json:"timestamp"`
	Tick        uint64          `json:"tick"`
	ElapsedDays float64         `json:"elapsed_days"`
	OldPhase    orbit.PhaseName `json:"old_phase,omitempty"`
	NewPhase    orbit.PhaseName `json:"new_phase,omitempty"`
}

// RunState is the simulation clock state.
type RunState string

const (
	Running RunState = "NOMINAL"
	Paused  RunState = "PAUSED"
)

// Control bounds applied by the interactive adjusters.
const (
	MinSpeed = 0.0
	MaxSpeed = 0.2
	MinZoom  = 0.2
	MaxZoom  = 5.0
)

// Manager owns the orbital angle, display controls, and trails.
type Manager struct {
	mu sync.RWMutex

	calc   *orbit.Calculator
	paused bool
	ticks  uint64

	// Controls, read fresh on every tick
	speed         float64
	zoom          float64
	trailsEnabled bool

	// Trails in Earth radii so they survive zoom changes
	topTrail  *orbit.Trail
	sideTrail *orbit.Trail

	lastPhase orbit.PhaseName

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int

	pixelsPerRadius float64
	now             func() time.Time
}

// Config holds configuration for the state manager.
type Config struct {
	Speed           float64
	Zoom            float64
	TrailsEnabled   bool
	TrailCap        int
	MaxEvents       int
	PixelsPerRadius float64
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		Speed:           orbit.BaseSpeed,
		Zoom:            1.0,
		TrailsEnabled:   true,
		TrailCap:        orbit.DefaultTrailCap,
		MaxEvents:       50,
		PixelsPerRadius: orbit.BasePixelsPerRadius,
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	ppr := cfg.PixelsPerRadius
	if ppr <= 0 {
		ppr = orbit.BasePixelsPerRadius
	}
	zoom := cfg.Zoom
	if zoom <= 0 {
		zoom = 1.0
	}
	return &Manager{
		calc:            orbit.NewCalculator(),
		speed:           cfg.Speed,
		zoom:            zoom,
		trailsEnabled:   cfg.TrailsEnabled,
		topTrail:        orbit.NewTrail(cfg.TrailCap),
		sideTrail:       orbit.NewTrail(cfg.TrailCap),
		lastPhase:       orbit.ComputePhase(0).Name,
		maxEvents:       maxEvents,
		events:          make([]Event, 0, maxEvents),
		pixelsPerRadius: ppr,
		now:             time.Now,
	}
}

// Tick runs one animation step: advance the angle, sample trails, and
// record a phase change if the bucket moved.
func (m *Manager) Tick() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ticks++
	m.calc.Advance(m.speed, m.paused)
	if m.paused {
		return
	}

	angle := m.calc.Angle()
	if m.trailsEnabled {
		tx, ty := orbit.ProjectTop(angle, orbit.MeanDistance, 1)
		sx, sz := orbit.ProjectSide(angle, orbit.MeanDistance, orbit.Inclination, 1)
		m.topTrail.Push(orbit.Point{X: tx, Y: ty})
		m.sideTrail.Push(orbit.Point{X: sx, Y: sz})
	}

	phase := orbit.ComputePhase(angle).Name
	if phase != m.lastPhase {
		m.addEvent(Event{
			Type:     EventPhaseChange,
			OldPhase: m.lastPhase,
			NewPhase: phase,
		})
		m.lastPhase = phase
	}
}

// TogglePause flips between RUNNING and PAUSED and returns the new state.
func (m *Manager) TogglePause() RunState {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setPausedLocked(!m.paused)
	return m.runStateLocked()
}

// SetPaused sets the run state explicitly.
func (m *Manager) SetPaused(paused bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setPausedLocked(paused)
}

func (m *Manager) setPausedLocked(paused bool) {
	if m.paused == paused {
		return
	}
	m.paused = paused
	if paused {
		m.addEvent(Event{Type: EventPaused})
	} else {
		m.addEvent(Event{Type: EventResumed})
	}
}

// Paused reports whether the clock is paused.
func (m *Manager) Paused() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.paused
}

// Reset zeroes the angle and clears trail history. Pause state is kept.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calc.Reset()
	m.topTrail.Clear()
	m.sideTrail.Clear()
	m.lastPhase = orbit.ComputePhase(0).Name
	m.addEvent(Event{Type: EventReset})
}

// SetSpeed sets the per-tick angle increment. Non-finite values are ignored.
func (m *Manager) SetSpeed(speed float64) {
	if !isFinite(speed) {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.speed = speed
}

// SetZoom sets the zoom multiplier. Non-finite or non-positive values are ignored.
func (m *Manager) SetZoom(zoom float64) {
	if !isFinite(zoom) || zoom <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.zoom = zoom
}

// AdjustSpeed nudges the speed, clamped to [MinSpeed, MaxSpeed].
func (m *Manager) AdjustSpeed(delta float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.speed = clamp(round3(m.speed+delta), MinSpeed, MaxSpeed)
	return m.speed
}

// AdjustZoom nudges the zoom, clamped to [MinZoom, MaxZoom].
func (m *Manager) AdjustZoom(delta float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.zoom = clamp(round3(m.zoom+delta), MinZoom, MaxZoom)
	return m.zoom
}

// SetTrails enables or disables trail sampling. Existing samples are kept.
func (m *Manager) SetTrails(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trailsEnabled = enabled
}

// ToggleTrails flips trail sampling and returns the new setting.
func (m *Manager) ToggleTrails() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trailsEnabled = !m.trailsEnabled
	return m.trailsEnabled
}

// addEvent adds an event to the ring buffer. Caller holds the lock.
func (m *Manager) addEvent(e Event) {
	e.Timestamp = m.now()
	e.Tick = m.ticks
	e.ElapsedDays = m.calc.ElapsedDays()

	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

func (m *Manager) runStateLocked() RunState {
	if m.paused {
		return Paused
	}
	return Running
}

// Snapshot is an immutable view of the simulation for one frame.
// Positions are in pixels relative to the Earth at PixelsPerRadius·Zoom.
type Snapshot struct {
	Tick          uint64
	Angle         float64
	ElapsedDays   float64
	State         RunState
	Phase         orbit.Phase
	Speed         float64
	Zoom          float64
	PxPerRadius   float64
	TrailsEnabled bool
	Top           orbit.Point
	Side          orbit.Point
	TopTrail      []orbit.Point
	SideTrail     []orbit.Point
	Events        []Event
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	angle := m.calc.Angle()
	px := m.pixelsPerRadius * m.zoom

	tx, ty := orbit.ProjectTop(angle, orbit.MeanDistance, px)
	sx, sz := orbit.ProjectSide(angle, orbit.MeanDistance, orbit.Inclination, px)

	return Snapshot{
		Tick:          m.ticks,
		Angle:         angle,
		ElapsedDays:   m.calc.ElapsedDays(),
		State:         m.runStateLocked(),
		Phase:         orbit.ComputePhase(angle),
		Speed:         m.speed,
		Zoom:          m.zoom,
		PxPerRadius:   px,
		TrailsEnabled: m.trailsEnabled,
		Top:           orbit.Point{X: tx, Y: ty},
		Side:          orbit.Point{X: sx, Y: sz},
		TopTrail:      scalePoints(m.topTrail.Points(), px),
		SideTrail:     scalePoints(m.sideTrail.Points(), px),
		Events:        m.getEventsOrdered(),
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// TrailLen returns the number of samples in each view's trail.
func (m *Manager) TrailLen() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.topTrail.Len()
}

func scalePoints(pts []orbit.Point, s float64) []orbit.Point {
	for i := range pts {
		pts[i].X *= s
		pts[i].Y *= s
	}
	return pts
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
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

// round3 trims accumulated float noise from repeated key presses.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
