package ui

import (
	"math"
	"math/rand/v2"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-lunar/internal/orbit"
	"github.com/litescript/ls-lunar/internal/state"
)

// Projection selects which plane an OrbitViewModel draws.
type Projection int

const (
	ProjectionTop Projection = iota
	ProjectionSide
)

// Labels drawn in the corner of each view.
const (
	TopViewLabel  = "COORD_SYSTEM::ECLIPTIC_TOP"
	SideViewLabel = "COORD_SYSTEM::ORBITAL_TILT"
)

// Canvas glyphs. renderGrid styles cells by glyph, so each kind gets its own rune.
const (
	glyphEmpty   = ' '
	glyphRing    = '·'
	glyphAxisH   = '─'
	glyphAxisV   = '│'
	glyphTrail   = '∘'
	glyphPointer = '⋅'
	glyphEarth   = '◐' // night half to the left, away from the Sun
	glyphMoon    = '●'
	glyphSun     = '☉'
	glyphStar    = '˙'
	glyphBright  = '∗'
)

// cellAspect is the width/height ratio of a terminal cell.
const cellAspect = 0.5

// Starfield size: at most maxStars, one per starCellsPer cells of canvas.
const (
	maxStars     = 200
	starCellsPer = 40
	starSeed     = 0x5EED
)

// star is a background point in normalized [0, 1) canvas coordinates.
type star struct {
	u, v   float64
	bright bool
}

// newStarfield returns a fixed field so stars hold still between frames.
func newStarfield(seed uint64) []star {
	r := rand.New(rand.NewPCG(seed, seed>>1))
	stars := make([]star, maxStars)
	for i := range stars {
		stars[i] = star{
			u:      r.Float64(),
			v:      r.Float64(),
			bright: r.Float64() < 0.15,
		}
	}
	return stars
}

// maxCellOffset bounds cell coordinates before integer conversion; anything
// beyond it is off screen anyway.
const maxCellOffset = 1 << 20

// OrbitViewModel renders one projection of the Earth–Moon system.
type OrbitViewModel struct {
	width      int
	height     int
	projection Projection
	snapshot   state.Snapshot
	stars      []star
	showStars  bool
}

// NewOrbitViewModel creates a view for the given projection.
func NewOrbitViewModel(p Projection) OrbitViewModel {
	return OrbitViewModel{
		projection: p,
		stars:      newStarfield(starSeed + uint64(p)),
		showStars:  true,
	}
}

// SetShowStars toggles the background starfield.
func (m OrbitViewModel) SetShowStars(show bool) OrbitViewModel {
	m.showStars = show
	return m
}

// ShowStars reports whether the starfield is drawn.
func (m OrbitViewModel) ShowStars() bool {
	return m.showStars
}

// SetSize updates the viewport size.
func (m OrbitViewModel) SetSize(width, height int) OrbitViewModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData updates the model with a new frame.
func (m OrbitViewModel) UpdateData(snapshot state.Snapshot) OrbitViewModel {
	m.snapshot = snapshot
	return m
}

// Label returns the coordinate system label for the view.
func (m OrbitViewModel) Label() string {
	if m.projection == ProjectionSide {
		return SideViewLabel
	}
	return TopViewLabel
}

// cellsPerPixel maps snapshot pixels to terminal columns so that the orbit
// ring exactly fits the viewport at zoom 1.0. Rows are scaled by cellAspect.
func (m OrbitViewModel) cellsPerPixel() float64 {
	fitR := math.Min(float64(m.width/2-2), float64(m.height-3))
	if fitR < 1 {
		fitR = 1
	}
	zoom := m.snapshot.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	basePx := m.snapshot.PxPerRadius / zoom
	if basePx <= 0 {
		basePx = orbit.BasePixelsPerRadius
	}
	return fitR / (orbit.MeanDistance * basePx)
}

// cellPos converts a pixel offset from the Earth into fractional grid
// coordinates. The result may lie far outside the grid at high zoom.
func (m OrbitViewModel) cellPos(p orbit.Point) (float64, float64) {
	k := m.cellsPerPixel()
	x := float64(m.width/2) + p.X*k
	y := float64(m.height/2) - p.Y*k*cellAspect
	return x, y
}

// toCell converts a pixel offset from the Earth into grid coordinates.
func (m OrbitViewModel) toCell(p orbit.Point) (int, int) {
	x, y := m.cellPos(p)
	return cellIndex(x), cellIndex(y)
}

func cellIndex(f float64) int {
	return int(math.Round(math.Max(-maxCellOffset, math.Min(maxCellOffset, f))))
}

// moonPoint returns the Moon's position for this projection.
func (m OrbitViewModel) moonPoint() orbit.Point {
	if m.projection == ProjectionSide {
		return m.snapshot.Side
	}
	return m.snapshot.Top
}

func (m OrbitViewModel) trail() []orbit.Point {
	if m.projection == ProjectionSide {
		return m.snapshot.SideTrail
	}
	return m.snapshot.TopTrail
}

// View renders the projection.
func (m OrbitViewModel) View() string {
	if m.width < 20 || m.height < 6 {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render("view too small")
	}
	return m.renderGrid(m.buildGrid())
}

// buildGrid draws the scene back to front.
func (m OrbitViewModel) buildGrid() [][]rune {
	grid := make([][]rune, m.height)
	for y := range grid {
		grid[y] = make([]rune, m.width)
		for x := range grid[y] {
			grid[y][x] = glyphEmpty
		}
	}

	cx, cy := m.width/2, m.height/2
	k := m.cellsPerPixel()

	if m.showStars {
		m.drawStarfield(grid)
	}
	m.drawAxes(grid, cx, cy)

	ringR := orbit.MeanDistance * m.snapshot.PxPerRadius * k
	m.drawCircle(grid, cx, cy, ringR)

	if m.snapshot.TrailsEnabled {
		for _, p := range m.trail() {
			x, y := m.toCell(p)
			if inBounds(grid, x, y) {
				grid[y][x] = glyphTrail
			}
		}
	}

	fx, fy := m.cellPos(m.moonPoint())
	m.drawLine(grid, float64(cx), float64(cy), fx, fy, glyphPointer)
	if m.projection == ProjectionTop {
		// Sun direction marker on the right edge
		grid[cy][m.width-1] = glyphSun
	}

	mx, my := cellIndex(fx), cellIndex(fy)

	grid[cy][cx] = glyphEarth
	if inBounds(grid, mx, my) {
		grid[my][mx] = glyphMoon
	}

	m.drawLabel(grid, m.Label())
	return grid
}

func (m OrbitViewModel) drawAxes(grid [][]rune, cx, cy int) {
	for x := range grid[cy] {
		grid[cy][x] = glyphAxisH
	}
	for y := range grid {
		grid[y][cx] = glyphAxisV
	}
}

func (m OrbitViewModel) drawCircle(grid [][]rune, cx, cy int, r float64) {
	if r < 1 {
		return
	}

	// Draw circle using parametric equations
	steps := int(2 * math.Pi * r)
	if steps < 8 {
		steps = 8
	}
	if steps > 720 {
		steps = 720
	}

	for i := 0; i < steps; i++ {
		theta := 2 * math.Pi * float64(i) / float64(steps)
		x := cx + cellIndex(r*math.Cos(theta))
		y := cy - cellIndex(r*math.Sin(theta)*cellAspect)
		if inBounds(grid, x, y) && grid[y][x] != glyphAxisH && grid[y][x] != glyphAxisV {
			grid[y][x] = glyphRing
		}
	}
}

// drawStarfield scatters the fixed star positions over empty cells.
func (m OrbitViewModel) drawStarfield(grid [][]rune) {
	n := len(grid) * len(grid[0]) / starCellsPer
	if n > len(m.stars) {
		n = len(m.stars)
	}
	for _, s := range m.stars[:n] {
		x := int(s.u * float64(len(grid[0])))
		y := int(s.v * float64(len(grid)))
		if !inBounds(grid, x, y) || grid[y][x] != glyphEmpty {
			continue
		}
		if s.bright {
			grid[y][x] = glyphBright
		} else {
			grid[y][x] = glyphStar
		}
	}
}

// drawLine samples the segment from (x0, y0) to (x1, y1) after clipping it
// to the grid, so the work is bounded by the grid size however far away the
// far end lies.
func (m OrbitViewModel) drawLine(grid [][]rune, x0, y0, x1, y1 float64, glyph rune) {
	maxX := float64(len(grid[0])) - 0.5
	maxY := float64(len(grid)) - 0.5
	ax, ay, bx, by, ok := clipSegment(x0, y0, x1, y1, -0.5, -0.5, maxX, maxY)
	if !ok {
		return
	}

	dx := bx - ax
	dy := by - ay
	steps := int(math.Ceil(math.Max(math.Abs(dx), math.Abs(dy))))
	for i := 0; i <= steps; i++ {
		t := 0.0
		if steps > 0 {
			t = float64(i) / float64(steps)
		}
		x := int(math.Round(ax + dx*t))
		y := int(math.Round(ay + dy*t))
		if inBounds(grid, x, y) {
			grid[y][x] = glyph
		}
	}
}

// clipSegment clips a segment to the rectangle [minX, maxX] x [minY, maxY]
// (Liang–Barsky). ok is false when the segment misses the rectangle.
func clipSegment(x0, y0, x1, y1, minX, minY, maxX, maxY float64) (ax, ay, bx, by float64, ok bool) {
	dx, dy := x1-x0, y1-y0
	t0, t1 := 0.0, 1.0

	p := [4]float64{-dx, dx, -dy, dy}
	q := [4]float64{x0 - minX, maxX - x0, y0 - minY, maxY - y0}
	for i := range p {
		if p[i] == 0 {
			if q[i] < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q[i] / p[i]
		if p[i] < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = math.Max(t0, r)
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = math.Min(t1, r)
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}

func (m OrbitViewModel) drawLabel(grid [][]rune, label string) {
	for i, r := range []rune(label) {
		if i >= len(grid[0]) {
			break
		}
		grid[0][i] = r
	}
}

func (m OrbitViewModel) renderGrid(grid [][]rune) string {
	var b strings.Builder

	starStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("236")) // Very dim for stars
	brightStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	axisStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
	ringStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	trailStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	pointerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))
	earthStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	moonStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)
	sunStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD"))

	for y, row := range grid {
		for _, ch := range row {
			var style lipgloss.Style

			switch ch {
			case glyphEmpty:
				b.WriteRune(ch)
				continue
			case glyphStar:
				style = starStyle
			case glyphBright:
				style = brightStyle
			case glyphAxisH, glyphAxisV:
				style = axisStyle
			case glyphRing:
				style = ringStyle
			case glyphTrail:
				style = trailStyle
			case glyphPointer:
				style = pointerStyle
			case glyphEarth:
				style = earthStyle
			case glyphMoon:
				style = moonStyle
			case glyphSun:
				style = sunStyle
			default:
				style = labelStyle
			}

			b.WriteString(style.Render(string(ch)))
		}
		if y < len(grid)-1 {
			b.WriteRune('\n')
		}
	}

	return b.String()
}

func inBounds(grid [][]rune, x, y int) bool {
	return y >= 0 && y < len(grid) && x >= 0 && x < len(grid[y])
}
