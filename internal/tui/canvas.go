package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/visunn/pkg/topology"
)

// bounds is the bounding box of a snapshot's coordinates.
type bounds struct {
	cx, cy float64 // center
	half   float64 // half of the larger extent, never zero
}

func boundsOf(snap *topology.Snapshot) bounds {
	if snap == nil || len(snap.Coords) == 0 {
		return bounds{half: 1}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range snap.Coords {
		minX, maxX = math.Min(minX, p.X()), math.Max(maxX, p.X())
		minY, maxY = math.Min(minY, p.Y()), math.Max(maxY, p.Y())
	}
	half := math.Max(maxX-minX, maxY-minY) / 2
	if half == 0 {
		half = 1
	}
	return bounds{cx: (minX + maxX) / 2, cy: (minY + maxY) / 2, half: half}
}

// camera is the renderer's own transform. It never feeds back into domain
// state.
type camera struct {
	angle      float64
	zoom       float64
	panX, panY int
}

func homeCamera() camera { return camera{zoom: 1} }

// project maps a backend coordinate to a canvas cell. The graph is rotated
// around its center, then fitted into a w x h canvas.
func (c camera) project(p topology.Point, b bounds, w, h int) (col, row int) {
	u := (p.X() - b.cx) / b.half
	v := (p.Y() - b.cy) / b.half
	sin, cos := math.Sincos(c.angle)
	u, v = u*cos-v*sin, u*sin+v*cos

	rx := float64(w-1) / 2
	ry := float64(h-1) / 2
	col = int(math.Round(rx+u*rx*c.zoom)) + c.panX
	row = int(math.Round(ry+v*ry*c.zoom)) + c.panY
	return col, row
}

// canvas is a grid of runes with an optional foreground color per cell.
type canvas struct {
	w, h   int
	cells  [][]rune
	colors [][]string
}

func newCanvas(w, h int) *canvas {
	w, h = max(w, 1), max(h, 1)
	c := &canvas{w: w, h: h, cells: make([][]rune, h), colors: make([][]string, h)}
	for y := range c.cells {
		c.cells[y] = []rune(strings.Repeat(" ", w))
		c.colors[y] = make([]string, w)
	}
	return c
}

func (c *canvas) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.w && y < c.h
}

func (c *canvas) set(x, y int, r rune, color string) {
	if c.inside(x, y) {
		c.cells[y][x] = r
		c.colors[y][x] = color
	}
}

// line draws a dotted segment without overwriting anything already drawn.
func (c *canvas) line(x0, y0, x1, y1 int, color string) {
	steps := max(abs(x1-x0), abs(y1-y0))
	for i := 1; i < steps; i++ {
		t := float64(i) / float64(steps)
		x := int(math.Round(float64(x0) + t*float64(x1-x0)))
		y := int(math.Round(float64(y0) + t*float64(y1-y0)))
		if c.inside(x, y) && c.cells[y][x] == ' ' {
			c.set(x, y, '·', color)
		}
	}
}

func (c *canvas) text(x, y int, s, color string) {
	for i, r := range []rune(s) {
		c.set(x+i, y, r, color)
	}
}

func (c *canvas) render() string {
	var b strings.Builder
	for y := range c.cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x, r := range c.cells[y] {
			if color := c.colors[y][x]; color != "" {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(string(r)))
				continue
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
