package ui

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/litescript/ls-lunar/internal/state"
)

func snapshotAt(t *testing.T, angle float64) state.Snapshot {
	t.Helper()
	cfg := state.DefaultConfig()
	cfg.Speed = angle
	m := state.NewManager(cfg)
	m.Tick()
	return m.Snapshot()
}

func countGlyph(grid [][]rune, g rune) int {
	n := 0
	for _, row := range grid {
		for _, ch := range row {
			if ch == g {
				n++
			}
		}
	}
	return n
}

func TestOrbitViewModelSetSize(t *testing.T) {
	m := NewOrbitViewModel(ProjectionTop).SetSize(80, 20)

	if m.width != 80 {
		t.Errorf("expected width 80, got %d", m.width)
	}
	if m.height != 20 {
		t.Errorf("expected height 20, got %d", m.height)
	}
}

func TestOrbitViewModelLabels(t *testing.T) {
	if got := NewOrbitViewModel(ProjectionTop).Label(); got != "COORD_SYSTEM::ECLIPTIC_TOP" {
		t.Errorf("top label = %q", got)
	}
	if got := NewOrbitViewModel(ProjectionSide).Label(); got != "COORD_SYSTEM::ORBITAL_TILT" {
		t.Errorf("side label = %q", got)
	}
}

func TestOrbitViewModel_MoonAtNewMoonIsSunward(t *testing.T) {
	m := NewOrbitViewModel(ProjectionTop).SetSize(80, 20).UpdateData(snapshotAt(t, 0))

	x, y := m.toCell(m.moonPoint())
	if x <= m.width/2 {
		t.Errorf("moon x = %d, want right of Earth (%d)", x, m.width/2)
	}
	if y != m.height/2 {
		t.Errorf("moon y = %d, want Earth row %d", y, m.height/2)
	}
}

func TestOrbitViewModel_MoonAtQuarterIsAbove(t *testing.T) {
	m := NewOrbitViewModel(ProjectionTop).SetSize(80, 20).UpdateData(snapshotAt(t, math.Pi/2))

	x, y := m.toCell(m.moonPoint())
	if x != m.width/2 {
		t.Errorf("moon x = %d, want Earth column %d", x, m.width/2)
	}
	if y >= m.height/2 {
		t.Errorf("moon y = %d, want above Earth row %d", y, m.height/2)
	}
}

func TestOrbitViewModel_RingFitsAtUnitZoom(t *testing.T) {
	m := NewOrbitViewModel(ProjectionTop).SetSize(80, 20).UpdateData(snapshotAt(t, 0))

	grid := m.buildGrid()
	if countGlyph(grid, glyphRing) == 0 {
		t.Fatal("expected orbit ring to be drawn")
	}
	// Ring must not touch the outer columns at zoom 1.0
	for y, row := range grid {
		if row[0] == glyphRing || row[len(row)-1] == glyphRing {
			t.Errorf("ring reaches the edge on row %d", y)
		}
	}
}

func TestOrbitViewModel_EarthAndMoonDrawn(t *testing.T) {
	for _, p := range []Projection{ProjectionTop, ProjectionSide} {
		m := NewOrbitViewModel(p).SetSize(80, 20).UpdateData(snapshotAt(t, 1.0))
		grid := m.buildGrid()

		if grid[10][40] != glyphEarth {
			t.Errorf("projection %d: expected Earth at centre, got %q", p, grid[10][40])
		}
		if countGlyph(grid, glyphMoon) != 1 {
			t.Errorf("projection %d: expected exactly one Moon glyph", p)
		}
	}
}

func TestOrbitViewModel_PointerInBothViews(t *testing.T) {
	snap := snapshotAt(t, 0.3)

	for _, p := range []Projection{ProjectionTop, ProjectionSide} {
		grid := NewOrbitViewModel(p).SetSize(80, 20).UpdateData(snap).buildGrid()
		if countGlyph(grid, glyphPointer) == 0 {
			t.Errorf("projection %d: expected the Earth→Moon pointer", p)
		}
	}
}

func TestOrbitViewModel_HugeZoomStaysCheap(t *testing.T) {
	for _, zoom := range []float64{1e7, 1e300} {
		cfg := state.DefaultConfig()
		cfg.Zoom = zoom
		mgr := state.NewManager(cfg)
		mgr.Tick()
		snap := mgr.Snapshot()

		for _, p := range []Projection{ProjectionTop, ProjectionSide} {
			m := NewOrbitViewModel(p).SetSize(70, 20).UpdateData(snap)

			start := time.Now()
			m.View()
			grid := m.buildGrid()
			if elapsed := time.Since(start); elapsed > 250*time.Millisecond {
				t.Errorf("zoom %g projection %d: frame took %v", zoom, p, elapsed)
			}

			// The Moon is far off to the right; the pointer runs to the edge.
			if grid[10][68] != glyphPointer {
				t.Errorf("zoom %g projection %d: expected pointer near the right edge, got %q", zoom, p, grid[10][68])
			}
			if countGlyph(grid, glyphMoon) != 0 {
				t.Errorf("zoom %g projection %d: Moon should be off screen", zoom, p)
			}
		}
	}
}

func TestClipSegment(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 float64
		wantOK         bool
		wantBX         float64
	}{
		{"inside", 2, 2, 8, 2, true, 8},
		{"far end outside", 5, 5, 1e9, 5, true, 9.5},
		{"entirely outside", 20, 20, 30, 30, false, 0},
		{"parallel outside", -3, 2, -1, 8, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, bx, _, ok := clipSegment(tt.x0, tt.y0, tt.x1, tt.y1, -0.5, -0.5, 9.5, 9.5)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && math.Abs(bx-tt.wantBX) > 1e-9 {
				t.Errorf("clipped end x = %v, want %v", bx, tt.wantBX)
			}
		})
	}
}

func TestOrbitViewModel_Starfield(t *testing.T) {
	snap := snapshotAt(t, 0)
	a := NewOrbitViewModel(ProjectionTop).SetSize(80, 20).UpdateData(snap).buildGrid()
	b := NewOrbitViewModel(ProjectionTop).SetSize(80, 20).UpdateData(snap).buildGrid()

	if countGlyph(a, glyphStar)+countGlyph(a, glyphBright) == 0 {
		t.Fatal("expected background stars")
	}
	for y := range a {
		if string(a[y]) != string(b[y]) {
			t.Fatalf("starfield should be stable between frames, row %d differs", y)
		}
	}

	off := NewOrbitViewModel(ProjectionTop).SetShowStars(false).SetSize(80, 20).UpdateData(snap).buildGrid()
	if countGlyph(off, glyphStar)+countGlyph(off, glyphBright) != 0 {
		t.Error("stars should be hidden when toggled off")
	}
}

func TestOrbitViewModel_Trails(t *testing.T) {
	cfg := state.DefaultConfig()
	cfg.Speed = 0.05
	mgr := state.NewManager(cfg)
	for i := 0; i < 20; i++ {
		mgr.Tick()
	}

	m := NewOrbitViewModel(ProjectionTop).SetSize(80, 20).UpdateData(mgr.Snapshot())
	if countGlyph(m.buildGrid(), glyphTrail) == 0 {
		t.Error("expected trail glyphs with trails enabled")
	}

	mgr.SetTrails(false)
	m = m.UpdateData(mgr.Snapshot())
	if countGlyph(m.buildGrid(), glyphTrail) != 0 {
		t.Error("trail should be hidden while trails are disabled")
	}
}

func TestOrbitViewModel_ZoomGrowsRing(t *testing.T) {
	mgr := state.NewManager(state.DefaultConfig())
	m := NewOrbitViewModel(ProjectionTop).SetSize(80, 20).UpdateData(mgr.Snapshot())
	x1, _ := m.toCell(m.moonPoint())

	mgr.SetZoom(0.5)
	m = m.UpdateData(mgr.Snapshot())
	x2, _ := m.toCell(m.moonPoint())

	if x2 >= x1 {
		t.Errorf("zooming out should pull the Moon toward Earth: %d -> %d", x1, x2)
	}
}

func TestOrbitViewModel_ViewContainsLabel(t *testing.T) {
	m := NewOrbitViewModel(ProjectionSide).SetSize(80, 12).UpdateData(snapshotAt(t, 0))
	if !strings.Contains(m.View(), SideViewLabel) {
		t.Error("side view should contain its label")
	}
}

func TestOrbitViewModel_TooSmall(t *testing.T) {
	m := NewOrbitViewModel(ProjectionTop).SetSize(10, 3)
	if !strings.Contains(m.View(), "too small") {
		t.Error("expected too-small message")
	}
}
