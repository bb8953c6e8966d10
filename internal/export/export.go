// Package export renders simulation snapshots for headless use: JSON,
// a text summary, a one-line status, and a small ASCII orbit.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/litescript/ls-lunar/internal/orbit"
	"github.com/litescript/ls-lunar/internal/state"
)

// SnapshotExport is the JSON-serializable representation of a frame.
type SnapshotExport struct {
	GeneratedAt time.Time     `json:"generated_at"`
	Tick        uint64        `json:"tick"`
	Angle       float64       `json:"angle_rad"`
	ElapsedDays float64       `json:"elapsed_days"`
	DaysLabel   string        `json:"days_label"`
	Status      string        `json:"status"`
	Phase       orbit.Phase   `json:"phase"`
	Speed       float64       `json:"speed"`
	SpeedLabel  string        `json:"speed_label"`
	Zoom        float64       `json:"zoom"`
	ZoomLabel   string        `json:"zoom_label"`
	PxPerRadius float64       `json:"px_per_radius"`
	Top         orbit.Point   `json:"top"`
	Side        orbit.Point   `json:"side"`
	Trails      bool          `json:"trails"`
	TopTrail    []orbit.Point `json:"top_trail,omitempty"`
	SideTrail   []orbit.Point `json:"side_trail,omitempty"`
	Events      []state.Event `json:"events,omitempty"`
}

// ExportSnapshot converts a state snapshot to an exportable format.
func ExportSnapshot(snap state.Snapshot, generatedAt time.Time) *SnapshotExport {
	return &SnapshotExport{
		GeneratedAt: generatedAt,
		Tick:        snap.Tick,
		Angle:       snap.Angle,
		ElapsedDays: snap.ElapsedDays,
		DaysLabel:   orbit.FormatDays(snap.ElapsedDays),
		Status:      string(snap.State),
		Phase:       snap.Phase,
		Speed:       snap.Speed,
		SpeedLabel:  orbit.FormatMultiplier(orbit.SpeedMultiplier(snap.Speed)),
		Zoom:        snap.Zoom,
		ZoomLabel:   orbit.FormatMultiplier(snap.Zoom),
		PxPerRadius: snap.PxPerRadius,
		Top:         snap.Top,
		Side:        snap.Side,
		Trails:      snap.TrailsEnabled,
		TopTrail:    snap.TopTrail,
		SideTrail:   snap.SideTrail,
		Events:      snap.Events,
	}
}

// WriteJSON writes the snapshot as JSON to the given writer.
func (s *SnapshotExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// WriteSummary writes an aligned table of the frame stats.
func WriteSummary(w io.Writer, snap state.Snapshot, timestamp time.Time) {
	fmt.Fprintf(w, "Earth–Moon @ %s\n", timestamp.Format(time.RFC3339))
	fmt.Fprintln(w, strings.Repeat("─", 48))

	row := func(label, value string) {
		fmt.Fprintf(w, "%-14s %s\n", label, value)
	}
	row("Elapsed", orbit.FormatDays(snap.ElapsedDays))
	row("Status", string(snap.State))
	row("Phase", string(snap.Phase.Name))
	row("Illumination", fmt.Sprintf("%.1f%%", snap.Phase.Illumination*100))
	row("Orbit angle", fmt.Sprintf("%.1f°", snap.Phase.AngleDeg))
	row("Speed", orbit.FormatMultiplier(orbit.SpeedMultiplier(snap.Speed)))
	row("Zoom", orbit.FormatMultiplier(snap.Zoom))
	row("Top (px)", fmt.Sprintf("%+.1f, %+.1f", snap.Top.X, snap.Top.Y))
	row("Side (px)", fmt.Sprintf("%+.1f, %+.1f", snap.Side.X, snap.Side.Y))
}

// WriteNowLine writes a single status line.
func WriteNowLine(w io.Writer, snap state.Snapshot) {
	fmt.Fprintf(w, "%s  %s  %s  %3.0f%% lit  speed %s\n",
		orbit.FormatDays(snap.ElapsedDays),
		snap.State,
		snap.Phase.Name,
		snap.Phase.Illumination*100,
		orbit.FormatMultiplier(orbit.SpeedMultiplier(snap.Speed)),
	)
}

// WriteEvents writes the last n events, oldest first.
func WriteEvents(w io.Writer, events []state.Event, n int) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No events")
		return
	}
	if len(events) > n {
		events = events[len(events)-n:]
	}
	for _, e := range events {
		line := fmt.Sprintf("%s  %-12s %s", orbit.FormatDays(e.ElapsedDays), e.Type, e.Timestamp.Format("15:04:05"))
		if e.Type == state.EventPhaseChange {
			line += fmt.Sprintf("  %s → %s", e.OldPhase, e.NewPhase)
		}
		fmt.Fprintln(w, line)
	}
}

// MiniOrbitConfig sizes the ASCII orbit.
type MiniOrbitConfig struct {
	Width  int
	Height int
}

// DefaultMiniOrbitConfig returns a compact layout.
func DefaultMiniOrbitConfig() MiniOrbitConfig {
	return MiniOrbitConfig{Width: 41, Height: 15}
}

// WriteMiniOrbit draws a small top-down orbit with the Earth at the centre
// and the Moon at its current angle. The Sun is off to the right.
func WriteMiniOrbit(w io.Writer, snap state.Snapshot, cfg MiniOrbitConfig) {
	if cfg.Width < 9 || cfg.Height < 5 {
		cfg = DefaultMiniOrbitConfig()
	}

	grid := make([][]rune, cfg.Height)
	for y := range grid {
		grid[y] = []rune(strings.Repeat(" ", cfg.Width))
	}

	cx, cy := cfg.Width/2, cfg.Height/2
	rx := float64(cfg.Width/2 - 2)
	ry := float64(cfg.Height/2 - 1)

	for i := 0; i < 72; i++ {
		theta := 2 * math.Pi * float64(i) / 72
		x := cx + int(math.Round(rx*math.Cos(theta)))
		y := cy - int(math.Round(ry*math.Sin(theta)))
		grid[y][x] = '·'
	}

	grid[cy][cx] = 'E'
	grid[cy][cfg.Width-1] = '☉'

	mx := cx + int(math.Round(rx*math.Cos(snap.Angle)))
	my := cy - int(math.Round(ry*math.Sin(snap.Angle)))
	grid[my][mx] = 'M'

	for _, row := range grid {
		fmt.Fprintln(w, strings.TrimRight(string(row), " "))
	}
	fmt.Fprintf(w, "%s  %s\n", snap.Phase.Name, orbit.FormatDays(snap.ElapsedDays))
}
