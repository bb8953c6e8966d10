package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-lunar/internal/orbit"
	"github.com/litescript/ls-lunar/internal/state"
)

const (
	glyphLit  = '█'
	glyphDark = '░'
)

// PhaseViewModel renders the lunar disc as seen from Earth, plus the stats panel.
type PhaseViewModel struct {
	width    int
	height   int
	snapshot state.Snapshot
	events   int // Number of recent events to list
}

// NewPhaseViewModel creates a new phase panel.
func NewPhaseViewModel() PhaseViewModel {
	return PhaseViewModel{events: 4}
}

// SetSize updates the panel size.
func (m PhaseViewModel) SetSize(width, height int) PhaseViewModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData updates the model with a new frame.
func (m PhaseViewModel) UpdateData(snapshot state.Snapshot) PhaseViewModel {
	m.snapshot = snapshot
	return m
}

// litCell reports whether a point on the unit disc is sunlit. u grows toward
// the observer's right, v upward. Waxing phases light the right limb; the
// terminator is an ellipse with horizontal semi-axis |cos(angle)|, which makes
// the lit area fraction equal to (1 - cos(angle)) / 2.
func litCell(u, v, angle float64) bool {
	a := orbit.WrapAngle(angle)
	edge := math.Sqrt(math.Max(0, 1-v*v))
	c := math.Cos(a)
	if a <= math.Pi {
		return u > c*edge
	}
	return u < -c*edge
}

// discSize returns the disc's width and height in cells. Height is half the
// width so the disc looks round.
func (m PhaseViewModel) discSize() (int, int) {
	maxH := m.height - statsLines - 1
	w := m.width - 2
	if w > 2*maxH {
		w = 2 * maxH
	}
	if w > 28 {
		w = 28
	}
	if w < 4 {
		w = 4
	}
	return w, w / 2
}

// buildDisc returns the disc as a rune grid.
func (m PhaseViewModel) buildDisc() [][]rune {
	w, h := m.discSize()
	angle := m.snapshot.Angle

	grid := make([][]rune, h)
	for y := 0; y < h; y++ {
		grid[y] = make([]rune, w)
		for x := 0; x < w; x++ {
			// Sample cell centres in [-1, 1]
			u := (float64(x)+0.5)/float64(w)*2 - 1
			v := 1 - (float64(y)+0.5)/float64(h)*2
			switch {
			case u*u+v*v > 1:
				grid[y][x] = glyphEmpty
			case litCell(u, v, angle):
				grid[y][x] = glyphLit
			default:
				grid[y][x] = glyphDark
			}
		}
	}
	return grid
}

// View renders the disc above the stats panel.
func (m PhaseViewModel) View() string {
	litStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("230"))
	darkStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("237"))

	var b strings.Builder
	for _, row := range m.buildDisc() {
		b.WriteString(" ")
		for _, ch := range row {
			switch ch {
			case glyphLit:
				b.WriteString(litStyle.Render(string(ch)))
			case glyphDark:
				b.WriteString(darkStyle.Render(string(ch)))
			default:
				b.WriteRune(ch)
			}
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.renderStats())
	return b.String()
}

// statsLines is the fixed height of the stats block, excluding events.
const statsLines = 9

func (m PhaseViewModel) renderStats() string {
	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Width(10)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	nominalStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true)
	pausedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27")).Bold(true)

	s := m.snapshot
	var b strings.Builder

	row := func(label, value string) {
		b.WriteString(" ")
		b.WriteString(labelStyle.Render(label))
		b.WriteString(value)
		b.WriteString("\n")
	}

	b.WriteString(" ")
	b.WriteString(headerStyle.Render("◆ " + string(s.Phase.Name)))
	b.WriteString("\n")

	row("ELAPSED", valueStyle.Render(orbit.FormatDays(s.ElapsedDays)))

	status := nominalStyle.Render(string(state.Running))
	if s.State == state.Paused {
		status = pausedStyle.Render(string(state.Paused))
	}
	row("STATUS", status)

	row("LIT", valueStyle.Render(fmt.Sprintf("%.0f%%", s.Phase.Illumination*100)))
	row("ANGLE", valueStyle.Render(fmt.Sprintf("%.1f°", s.Phase.AngleDeg)))
	row("SPEED", valueStyle.Render(orbit.FormatMultiplier(orbit.SpeedMultiplier(s.Speed))))
	row("ZOOM", valueStyle.Render(orbit.FormatMultiplier(s.Zoom)))

	trails := "OFF"
	if s.TrailsEnabled {
		trails = "ON"
	}
	row("TRAILS", valueStyle.Render(trails))

	events := s.Events
	if len(events) > m.events {
		events = events[len(events)-m.events:]
	}
	if len(events) > 0 {
		b.WriteString("\n")
	}
	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]
		line := fmt.Sprintf("%s %s", orbit.FormatDays(e.ElapsedDays), e.Type)
		if e.Type == state.EventPhaseChange {
			line += " → " + string(e.NewPhase)
		}
		b.WriteString(" ")
		b.WriteString(dimStyle.Render(line))
		b.WriteString("\n")
	}

	return b.String()
}
