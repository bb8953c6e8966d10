// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-lunar/internal/orbit"
	"github.com/litescript/ls-lunar/internal/state"
	"github.com/litescript/ls-lunar/internal/version"
)

// Control step sizes for one key press.
const (
	speedStep = orbit.BaseSpeed / 2
	zoomStep  = 0.1
)

// DefaultFPS is the animation rate when none is configured.
const DefaultFPS = 30

// Msg types for Bubble Tea
type (
	// AnimTickMsg advances the simulation by one step.
	AnimTickMsg time.Time
)

// Options configures the root model.
type Options struct {
	// FPS is the animation tick rate.
	FPS int

	// OnFrame, if set, is called with every snapshot produced by a tick.
	// It runs on the Bubble Tea goroutine and must not block.
	OnFrame func(state.Snapshot)
}

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	state   *state.Manager
	onFrame func(state.Snapshot)
	fps     int

	// UI state
	width     int
	height    int
	ready     bool
	statusMsg string
	animTick  int

	// Sub-models
	topView  OrbitViewModel
	sideView OrbitViewModel
	phase    PhaseViewModel

	snapshot state.Snapshot
}

// New creates a new root UI model.
func New(stateMgr *state.Manager, opts Options) Model {
	fps := opts.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}
	m := Model{
		state:    stateMgr,
		onFrame:  opts.OnFrame,
		fps:      fps,
		topView:  NewOrbitViewModel(ProjectionTop),
		sideView: NewOrbitViewModel(ProjectionSide),
		phase:    NewPhaseViewModel(),
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.animTickCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case " ", "space", "p":
			rs := m.state.TogglePause()
			m.statusMsg = "Clock " + string(rs)
		case "r":
			m.state.Reset()
			m.statusMsg = "Orbit reset"
		case "+", "=":
			m.statusMsg = "Zoom " + orbit.FormatMultiplier(m.state.AdjustZoom(zoomStep))
		case "-", "_":
			m.statusMsg = "Zoom " + orbit.FormatMultiplier(m.state.AdjustZoom(-zoomStep))
		case "]", "right":
			m.statusMsg = "Speed " + orbit.FormatMultiplier(orbit.SpeedMultiplier(m.state.AdjustSpeed(speedStep)))
		case "[", "left":
			m.statusMsg = "Speed " + orbit.FormatMultiplier(orbit.SpeedMultiplier(m.state.AdjustSpeed(-speedStep)))
		case "s":
			show := !m.topView.ShowStars()
			m.topView = m.topView.SetShowStars(show)
			m.sideView = m.sideView.SetShowStars(show)
			if show {
				m.statusMsg = "Stars on"
			} else {
				m.statusMsg = "Stars off"
			}
		case "t":
			if m.state.ToggleTrails() {
				m.statusMsg = "Trails on"
			} else {
				m.statusMsg = "Trails off"
			}
		}
		// Controls take effect on screen before the next tick.
		m.refresh()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()

	case AnimTickMsg:
		cmds = append(cmds, m.animTickCmd())
		m.animTick++
		m.state.Tick()
		m.refresh()
		if m.onFrame != nil {
			m.onFrame(m.snapshot)
		}
	}

	return m, tea.Batch(cmds...)
}

// refresh pulls a fresh snapshot and pushes it to the sub-models.
func (m *Model) refresh() {
	m.snapshot = m.state.Snapshot()
	m.topView = m.topView.UpdateData(m.snapshot)
	m.sideView = m.sideView.UpdateData(m.snapshot)
	m.phase = m.phase.UpdateData(m.snapshot)
}

// headerLines and footerLines are the rows reserved around the views.
const (
	headerLines = 3
	footerLines = 2
)

// layout splits the terminal: orbit views stacked on the left, phase disc
// and stats on the right.
func (m *Model) layout() {
	contentH := m.height - headerLines - footerLines
	if contentH < 2 {
		contentH = 2
	}
	leftW := m.width * 62 / 100
	rightW := m.width - leftW - 1
	topH := contentH * 55 / 100
	sideH := contentH - topH

	m.topView = m.topView.SetSize(leftW, topH)
	m.sideView = m.sideView.SetSize(leftW, sideH)
	m.phase = m.phase.SetSize(rightW, contentH)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.width < 60 || m.height < 20 {
		return fmt.Sprintf("Terminal too small (%dx%d), need at least 60x20", m.width, m.height)
	}

	left := lipgloss.JoinVertical(lipgloss.Left, m.topView.View(), m.sideView.View())
	content := lipgloss.JoinHorizontal(lipgloss.Top, left, " ", m.phase.View())

	return m.renderHeader() + "\n" + content + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	title := "  ◐ LS-LUNAR"
	var b strings.Builder
	runes := []rune(title)
	for col, r := range runes {
		color := gradientColor(col, 0, len(runes), 1)
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true).Render(string(r)))
	}

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	b.WriteString(muted.Render(fmt.Sprintf("  Earth–Moon Orbit State · v%s", version.Version)))
	b.WriteString("\n")

	days := lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	b.WriteString("  ")
	b.WriteString(days.Render(orbit.FormatDays(m.snapshot.ElapsedDays)))
	b.WriteString(muted.Render(fmt.Sprintf("  sidereal month %.2f d · inclination %.2f°",
		orbit.SiderealMonthDays, orbit.InclinationDeg)))
	b.WriteString("\n")
	return b.String()
}

// gradientColor returns a hex color for a position in the title gradient.
// Blue -> purple -> magenta -> pink, fading toward the bottom rows.
func gradientColor(col, row, width, height int) string {
	xRatio := float64(col) / float64(width)
	yRatio := float64(row) / float64(height)

	var r, g, b float64

	if xRatio < 0.33 {
		t := xRatio / 0.33
		r = 59 + t*(139-59)
		g = 130 + t*(92-130)
		b = 246
	} else if xRatio < 0.66 {
		t := (xRatio - 0.33) / 0.33
		r = 139 + t*(217-139)
		g = 92 + t*(70-92)
		b = 246 + t*(239-246)
	} else {
		t := (xRatio - 0.66) / 0.34
		r = 217 + t*(236-217)
		g = 70 + t*(72-70)
		b = 239 + t*(153-239)
	}

	brightnessFactor := 1.0 - (yRatio * 0.5)
	r *= brightnessFactor
	g *= brightnessFactor
	b *= brightnessFactor

	return fmt.Sprintf("#%02X%02X%02X", clampByte(r), clampByte(g), clampByte(b))
}

func clampByte(v float64) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return int(v)
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))
	pausedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))

	// Animated spinner frames; frozen while paused
	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

	var status string
	if m.snapshot.State == state.Paused {
		status = pausedStyle.Render("❚❚ PAUSED")
	} else {
		spinner := spinnerFrames[m.animTick%len(spinnerFrames)]
		status = accentStyle.Render(spinner) + " " + m.renderShimmerText("tracking orbit")
	}

	help := dimStyle.Render("space/p: pause | r: reset | +/-: zoom | [/] ←/→: speed | t: trails | s: stars | q: quit")
	footer := "  " + status + "  " + dimStyle.Render("|") + "  " + help

	if m.statusMsg != "" {
		footer += "\n  " + dimStyle.Render(m.statusMsg)
	}
	return footer
}

// renderShimmerText renders text with a subtle moving shine effect.
func (m Model) renderShimmerText(text string) string {
	runes := []rune(text)
	textLen := len(runes)
	if textLen == 0 {
		return ""
	}

	// Slowed to the spinner cadence regardless of FPS
	step := m.animTick * 12 / m.fps
	pos := step % (textLen + 8)

	var result strings.Builder
	for i, r := range runes {
		dist := i - pos + 4
		if dist < 0 {
			dist = -dist
		}

		var r8, g8, b8 int
		switch {
		case dist <= 1:
			r8, g8, b8 = 180, 160, 220
		case dist <= 3:
			r8, g8, b8 = 140, 120, 180
		case dist <= 5:
			r8, g8, b8 = 110, 90, 150
		default:
			r8, g8, b8 = 80, 70, 120
		}

		hexColor := fmt.Sprintf("#%02X%02X%02X", r8, g8, b8)
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor))
		result.WriteString(style.Render(string(r)))
	}

	return result.String()
}

// Snapshot returns the frame currently on screen.
func (m Model) Snapshot() state.Snapshot {
	return m.snapshot
}

func (m Model) animTickCmd() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}
