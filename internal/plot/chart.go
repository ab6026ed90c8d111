package plot

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Format selects the image encoding of a Chart.
type Format int

const (
	FormatPNG Format = iota
	FormatSVG
)

func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatSVG:
		return "svg"
	default:
		return "unknown"
	}
}

// FormatForPath picks the image format from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, nil
	case ".svg":
		return FormatSVG, nil
	default:
		return 0, fmt.Errorf("unsupported image extension %q (want .png or .svg)", filepath.Ext(path))
	}
}

// Chart margins in pixels.
const (
	marginLeft   = 80
	marginRight  = 24
	marginTop    = 36
	marginBottom = 60

	tickCount = 6
)

// Chart records geometry and renders it as an image through go-chart.
type Chart struct {
	Recorder

	Width  int
	Height int
	Format Format
	Title  string
	YLabel string
}

// NewChart creates a chart of width x height pixels.
func NewChart(width, height int, format Format) *Chart {
	return &Chart{
		Width:  width,
		Height: height,
		Format: format,
		YLabel: "Ground range [km]",
	}
}

func (c *Chart) renderer() (chart.Renderer, error) {
	switch c.Format {
	case FormatPNG:
		return chart.PNG(c.Width, c.Height)
	case FormatSVG:
		return chart.SVG(c.Width, c.Height)
	default:
		return nil, fmt.Errorf("unknown chart format %d", c.Format)
	}
}

// pixelArea maps data coordinates to image pixels.
type pixelArea struct {
	left, top, right, bottom int
	b                        Bounds
}

func (a pixelArea) x(v float64) int {
	return a.left + int(math.Round((v-a.b.XMin)/(a.b.XMax-a.b.XMin)*float64(a.right-a.left)))
}

func (a pixelArea) y(v float64) int {
	return a.bottom - int(math.Round((v-a.b.YMin)/(a.b.YMax-a.b.YMin)*float64(a.bottom-a.top)))
}

func hexColor(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

// Save renders all recorded geometry and writes the encoded image to w.
func (c *Chart) Save(w io.Writer) error {
	if c.Width <= marginLeft+marginRight || c.Height <= marginTop+marginBottom {
		return fmt.Errorf("chart size %dx%d too small", c.Width, c.Height)
	}

	r, err := c.renderer()
	if err != nil {
		return fmt.Errorf("create %s renderer: %w", c.Format, err)
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return fmt.Errorf("load chart font: %w", err)
	}
	r.SetFont(font)

	area := pixelArea{
		left:   marginLeft,
		top:    marginTop,
		right:  c.Width - marginRight,
		bottom: c.Height - marginBottom,
		b:      c.Bounds(),
	}

	// background
	r.SetFillColor(drawing.ColorWhite)
	r.MoveTo(0, 0)
	r.LineTo(c.Width, 0)
	r.LineTo(c.Width, c.Height)
	r.LineTo(0, c.Height)
	r.Close()
	r.Fill()

	for _, op := range c.Ops {
		if op.Kind == OpFill {
			c.fillBand(r, area, op)
		}
	}
	for _, op := range c.Ops {
		if op.Kind == OpLine {
			c.strokeLine(r, area, op)
		}
	}

	c.drawAxes(r, area)
	return r.Save(w)
}

// fillBand traces y1 forward and y2 backward and fills the closed polygon.
func (c *Chart) fillBand(r chart.Renderer, a pixelArea, op Op) {
	if len(op.X) < 2 {
		return
	}
	r.SetFillColor(hexColor(op.Color))
	r.MoveTo(a.x(op.X[0]), a.y(op.Y1[0]))
	for i := 1; i < len(op.X); i++ {
		r.LineTo(a.x(op.X[i]), a.y(op.Y1[i]))
	}
	for i := len(op.X) - 1; i >= 0; i-- {
		r.LineTo(a.x(op.X[i]), a.y(op.Y2[i]))
	}
	r.Close()
	r.Fill()
}

func (c *Chart) strokeLine(r chart.Renderer, a pixelArea, op Op) {
	if len(op.X) < 2 {
		return
	}
	r.SetStrokeColor(hexColor(op.Color))
	r.SetStrokeWidth(1)
	r.MoveTo(a.x(op.X[0]), a.y(op.Y1[0]))
	for i := 1; i < len(op.X); i++ {
		r.LineTo(a.x(op.X[i]), a.y(op.Y1[i]))
	}
	r.Stroke()
}

func (c *Chart) drawAxes(r chart.Renderer, a pixelArea) {
	r.SetStrokeColor(drawing.ColorBlack)
	r.SetStrokeWidth(1)
	r.MoveTo(a.left, a.top)
	r.LineTo(a.left, a.bottom)
	r.LineTo(a.right, a.bottom)
	r.Stroke()

	r.SetFontColor(drawing.ColorBlack)
	r.SetFontSize(10)

	for _, v := range Ticks(a.b.XMin, a.b.XMax, tickCount) {
		x := a.x(v)
		r.MoveTo(x, a.bottom)
		r.LineTo(x, a.bottom+5)
		r.Stroke()
		label := fmt.Sprintf("%.0f", v)
		box := r.MeasureText(label)
		r.Text(label, x-box.Width()/2, a.bottom+8+box.Height())
	}
	for _, v := range Ticks(a.b.YMin, a.b.YMax, tickCount) {
		y := a.y(v)
		r.MoveTo(a.left-5, y)
		r.LineTo(a.left, y)
		r.Stroke()
		label := fmt.Sprintf("%.0f", v)
		box := r.MeasureText(label)
		r.Text(label, a.left-8-box.Width(), y+box.Height()/2)
	}

	r.SetFontSize(12)
	if c.XLabel != "" {
		box := r.MeasureText(c.XLabel)
		r.Text(c.XLabel, (a.left+a.right-box.Width())/2, c.Height-12)
	}
	if c.YLabel != "" {
		box := r.MeasureText(c.YLabel)
		r.SetTextRotation(-math.Pi / 2)
		r.Text(c.YLabel, 18, (a.top+a.bottom+box.Width())/2)
		r.ClearTextRotation()
	}
	if c.Title != "" {
		box := r.MeasureText(c.Title)
		r.Text(c.Title, (c.Width-box.Width())/2, a.top-12)
	}
}
