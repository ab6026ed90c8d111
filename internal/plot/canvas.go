package plot

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	glyphFill   = '▒'
	glyphLine   = '•'
	glyphAxisX  = '─'
	glyphAxisY  = '│'
	glyphCorner = '└'

	colorBackground = "236"
	colorAxis       = "60"  // muted purple
	colorLabel      = "252" // light gray

	// Columns reserved left of the plot for y tick labels.
	yLabelWidth = 8
	// Rows reserved below the plot: axis, tick labels, axis label.
	xAxisRows = 3
)

// terminalColors remaps colors that vanish on a dark terminal.
var terminalColors = map[string]lipgloss.Color{
	"#000000": "#d0c8ff",
}

// Canvas renders recorded geometry to a character grid styled with lipgloss.
type Canvas struct {
	Recorder

	width  int
	height int

	// YLabel is printed above the y axis.
	YLabel string
}

// NewCanvas creates a canvas of width x height terminal cells.
func NewCanvas(width, height int) *Canvas {
	return &Canvas{
		width:  width,
		height: height,
		YLabel: "ground range [km]",
	}
}

// SetSize updates the canvas size; recorded geometry is kept.
func (c *Canvas) SetSize(width, height int) {
	c.width = width
	c.height = height
}

// cellGrid is the rasterized canvas before styling.
type cellGrid struct {
	runes  [][]rune
	colors [][]lipgloss.Color
}

func newCellGrid(width, height int) cellGrid {
	g := cellGrid{
		runes:  make([][]rune, height),
		colors: make([][]lipgloss.Color, height),
	}
	for y := 0; y < height; y++ {
		g.runes[y] = make([]rune, width)
		g.colors[y] = make([]lipgloss.Color, width)
		for x := 0; x < width; x++ {
			g.runes[y][x] = ' '
			g.colors[y][x] = colorBackground
		}
	}
	return g
}

func (g cellGrid) set(x, y int, r rune, color lipgloss.Color) {
	if y < 0 || y >= len(g.runes) || x < 0 || x >= len(g.runes[y]) {
		return
	}
	g.runes[y][x] = r
	g.colors[y][x] = color
}

func (g cellGrid) text(x, y int, s string, color lipgloss.Color) {
	for i, r := range []rune(s) {
		g.set(x+i, y, r, color)
	}
}

// plotArea maps data coordinates to cells inside the axes.
type plotArea struct {
	left, top     int
	width, height int
	b             Bounds
}

func (a plotArea) col(x float64) int {
	return a.left + int(math.Round((x-a.b.XMin)/(a.b.XMax-a.b.XMin)*float64(a.width-1)))
}

func (a plotArea) row(y float64) int {
	return a.top + a.height - 1 - int(math.Round((y-a.b.YMin)/(a.b.YMax-a.b.YMin)*float64(a.height-1)))
}

// Plain renders the canvas without styling. It returns a short message when
// the canvas is too small to hold a plot.
func (c *Canvas) Plain() string {
	g, ok := c.rasterize()
	if !ok {
		return c.tooSmall()
	}
	lines := make([]string, len(g.runes))
	for y, row := range g.runes {
		lines[y] = string(row)
	}
	return strings.Join(lines, "\n")
}

// Render renders the canvas with per-cell colors.
func (c *Canvas) Render() string {
	g, ok := c.rasterize()
	if !ok {
		return c.tooSmall()
	}

	var b strings.Builder
	for y := range g.runes {
		for x := range g.runes[y] {
			style := lipgloss.NewStyle().Foreground(g.colors[y][x])
			b.WriteString(style.Render(string(g.runes[y][x])))
		}
		if y < len(g.runes)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (c *Canvas) tooSmall() string {
	return "Timing diagram requires larger terminal"
}

func (c *Canvas) rasterize() (cellGrid, bool) {
	area := plotArea{
		left:   yLabelWidth,
		top:    1,
		width:  c.width - yLabelWidth - 1,
		height: c.height - xAxisRows - 1,
		b:      c.Bounds(),
	}
	if area.width < 10 || area.height < 4 {
		return cellGrid{}, false
	}

	g := newCellGrid(c.width, c.height)

	// Fills first so nadir lines stay visible on top.
	for _, op := range c.Ops {
		if op.Kind == OpFill {
			c.drawFill(g, area, op)
		}
	}
	for _, op := range c.Ops {
		if op.Kind == OpLine {
			c.drawLine(g, area, op)
		}
	}

	c.drawAxes(g, area)
	return g, true
}

func cellColor(hex string) lipgloss.Color {
	if mapped, ok := terminalColors[strings.ToLower(hex)]; ok {
		return mapped
	}
	return lipgloss.Color(hex)
}

// drawFill shades every cell between the two curves, interpolating across
// the columns between consecutive samples.
func (c *Canvas) drawFill(g cellGrid, a plotArea, op Op) {
	color := cellColor(op.Color)
	if len(op.X) == 1 {
		c.fillColumn(g, a, a.col(op.X[0]), op.Y1[0], op.Y2[0], color)
		return
	}
	for i := 0; i+1 < len(op.X); i++ {
		c0, c1 := a.col(op.X[i]), a.col(op.X[i+1])
		if c1 < c0 {
			c0, c1 = c1, c0
		}
		for col := c0; col <= c1; col++ {
			t := 0.0
			if c1 > c0 {
				t = float64(col-c0) / float64(c1-c0)
			}
			y1 := lerp(op.Y1[i], op.Y1[i+1], t)
			y2 := lerp(op.Y2[i], op.Y2[i+1], t)
			c.fillColumn(g, a, col, y1, y2, color)
		}
	}
}

func (c *Canvas) fillColumn(g cellGrid, a plotArea, col int, y1, y2 float64, color lipgloss.Color) {
	if y1 == y2 {
		return
	}
	r1, r2 := a.row(y1), a.row(y2)
	if r2 < r1 {
		r1, r2 = r2, r1
	}
	for row := r1; row <= r2; row++ {
		g.set(col, row, glyphFill, color)
	}
}

// drawLine plots each segment with one glyph per step along its longer
// screen dimension.
func (c *Canvas) drawLine(g cellGrid, a plotArea, op Op) {
	color := cellColor(op.Color)
	for i := 0; i+1 < len(op.X); i++ {
		x0, y0 := a.col(op.X[i]), a.row(op.Y1[i])
		x1, y1 := a.col(op.X[i+1]), a.row(op.Y1[i+1])
		steps := max(abs(x1-x0), abs(y1-y0))
		for s := 0; s <= steps; s++ {
			t := 0.0
			if steps > 0 {
				t = float64(s) / float64(steps)
			}
			x := x0 + int(math.Round(t*float64(x1-x0)))
			y := y0 + int(math.Round(t*float64(y1-y0)))
			g.set(x, y, glyphLine, color)
		}
	}
}

func (c *Canvas) drawAxes(g cellGrid, a plotArea) {
	axisRow := a.top + a.height
	axisCol := a.left - 1
	axisColor := lipgloss.Color(colorAxis)
	labelColor := lipgloss.Color(colorLabel)

	for x := a.left; x < a.left+a.width; x++ {
		g.set(x, axisRow, glyphAxisX, axisColor)
	}
	for y := a.top; y < axisRow; y++ {
		g.set(axisCol, y, glyphAxisY, axisColor)
	}
	g.set(axisCol, axisRow, glyphCorner, axisColor)

	// y ticks: bottom, middle, top
	for _, v := range Ticks(a.b.YMin, a.b.YMax, 3) {
		label := fmt.Sprintf("%*.0f", yLabelWidth-2, v)
		g.text(0, a.row(v), label, labelColor)
	}
	if c.YLabel != "" {
		g.text(0, 0, c.YLabel, labelColor)
	}

	// x ticks: left, middle, right, kept inside the canvas
	for _, v := range Ticks(a.b.XMin, a.b.XMax, 3) {
		label := fmt.Sprintf("%.0f", v)
		x := a.col(v) - len(label)/2
		x = min(max(x, a.left), c.width-len(label))
		g.text(x, axisRow+1, label, labelColor)
	}
	if c.XLabel != "" {
		x := a.left + (a.width-len([]rune(c.XLabel)))/2
		g.text(max(x, 0), axisRow+2, c.XLabel, labelColor)
	}
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
