package ui

import (
	"math"
	"strings"
	"testing"

	"github.com/litescript/ls-lunar/internal/orbit"
	"github.com/litescript/ls-lunar/internal/state"
)

func TestLitCell_Quarters(t *testing.T) {
	tests := []struct {
		name  string
		angle float64
		u     float64
		want  bool
	}{
		{"first quarter right limb", math.Pi / 2, 0.5, true},
		{"first quarter left limb", math.Pi / 2, -0.5, false},
		{"last quarter right limb", 3 * math.Pi / 2, 0.5, false},
		{"last quarter left limb", 3 * math.Pi / 2, -0.5, true},
		{"new moon centre", 0, 0, false},
		{"full moon centre", math.Pi, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := litCell(tt.u, 0, tt.angle); got != tt.want {
				t.Errorf("litCell(%v, 0, %v) = %v, want %v", tt.u, tt.angle, got, tt.want)
			}
		})
	}
}

func TestLitCell_AreaMatchesIllumination(t *testing.T) {
	const n = 200
	for _, angle := range []float64{0.3, 1.0, math.Pi / 2, 2.5, 4.0, 5.5} {
		inside, lit := 0, 0
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				u := (float64(i)+0.5)/n*2 - 1
				v := (float64(j)+0.5)/n*2 - 1
				if u*u+v*v > 1 {
					continue
				}
				inside++
				if litCell(u, v, angle) {
					lit++
				}
			}
		}
		got := float64(lit) / float64(inside)
		want := orbit.ComputePhase(angle).Illumination
		if math.Abs(got-want) > 0.02 {
			t.Errorf("angle %.2f: lit fraction %.3f, want %.3f", angle, got, want)
		}
	}
}

func TestPhaseViewModel_DiscExtremes(t *testing.T) {
	m := NewPhaseViewModel().SetSize(30, 30)

	m = m.UpdateData(snapshotAt(t, 0))
	if countGlyph(m.buildDisc(), glyphLit) != 0 {
		t.Error("new moon disc should have no lit cells")
	}

	m = m.UpdateData(snapshotAt(t, math.Pi))
	disc := m.buildDisc()
	if countGlyph(disc, glyphDark) != 0 {
		t.Error("full moon disc should have no dark cells")
	}
	if countGlyph(disc, glyphLit) == 0 {
		t.Error("full moon disc should be lit")
	}
}

func TestPhaseViewModel_DiscIsTwiceAsWideAsTall(t *testing.T) {
	m := NewPhaseViewModel().SetSize(30, 30)
	w, h := m.discSize()
	if w != 2*h {
		t.Errorf("disc %dx%d, want width = 2*height", w, h)
	}
}

func TestPhaseViewModel_Stats(t *testing.T) {
	cfg := state.DefaultConfig()
	cfg.Speed = math.Pi
	mgr := state.NewManager(cfg)
	mgr.Tick()
	mgr.SetPaused(true)

	view := NewPhaseViewModel().SetSize(40, 40).UpdateData(mgr.Snapshot()).View()

	for _, want := range []string{"FULL_MOON", "013.66_DAYS", "PAUSED", "100%", "314.2x", "1.0x", "ON"} {
		if !strings.Contains(view, want) {
			t.Errorf("stats missing %q", want)
		}
	}
}

func TestPhaseViewModel_EventsListed(t *testing.T) {
	cfg := state.DefaultConfig()
	cfg.Speed = 0.25
	mgr := state.NewManager(cfg)
	mgr.Tick() // 0.25 rad is past the NEW_MOON bucket

	view := NewPhaseViewModel().SetSize(40, 40).UpdateData(mgr.Snapshot()).View()
	if !strings.Contains(view, "PHASE_CHANGE") || !strings.Contains(view, "WAXING_CRESCENT") {
		t.Errorf("expected phase change event in stats, got:\n%s", view)
	}
}
