// Package plot provides drawing sinks for timing diagrams: an in-memory
// recorder, a terminal canvas and a PNG/SVG chart.
package plot

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/litescript/ls-timing/internal/geometry"
)

// OpKind identifies a recorded drawing call.
type OpKind string

const (
	OpLine OpKind = "line"
	OpFill OpKind = "fill"
)

// Op is one recorded drawing call. Y2 is nil for lines.
type Op struct {
	Kind  OpKind    `json:"kind"`
	X     []float64 `json:"x"`
	Y1    []float64 `json:"y1"`
	Y2    []float64 `json:"y2,omitempty"`
	Color string    `json:"color"`
}

// Recorder stores drawing calls in order. The zero value is ready to use.
type Recorder struct {
	Ops    []Op
	XLabel string
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Line records a polyline.
func (r *Recorder) Line(xs, ys []float64, color string) error {
	if err := geometry.CheckLengths("line", len(xs), ys); err != nil {
		return err
	}
	r.Ops = append(r.Ops, Op{
		Kind:  OpLine,
		X:     clone(xs),
		Y1:    clone(ys),
		Color: color,
	})
	return nil
}

// FillBetween records a filled band.
func (r *Recorder) FillBetween(xs, y1, y2 []float64, color string) error {
	if err := geometry.CheckLengths("fill between", len(xs), y1, y2); err != nil {
		return err
	}
	r.Ops = append(r.Ops, Op{
		Kind:  OpFill,
		X:     clone(xs),
		Y1:    clone(y1),
		Y2:    clone(y2),
		Color: color,
	})
	return nil
}

// SetXLabel records the x axis label.
func (r *Recorder) SetXLabel(label string) {
	r.XLabel = label
}

// Count returns the number of recorded ops of the given kind.
func (r *Recorder) Count(kind OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Reset drops all recorded ops and the label.
func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
	r.XLabel = ""
}

// Bounds is a data-space rectangle.
type Bounds struct {
	XMin, XMax float64
	YMin, YMax float64
}

// Bounds returns the extent of all recorded geometry. The y range always
// includes 0, since ground ranges start at nadir. Degenerate ranges are
// widened so callers can divide by the span.
func (r *Recorder) Bounds() Bounds {
	b := Bounds{XMin: math.Inf(1), XMax: math.Inf(-1), YMin: 0, YMax: 0}
	for _, op := range r.Ops {
		if len(op.X) == 0 {
			continue
		}
		b.XMin = math.Min(b.XMin, floats.Min(op.X))
		b.XMax = math.Max(b.XMax, floats.Max(op.X))
		b.YMax = math.Max(b.YMax, finiteMax(op.Y1))
		b.YMax = math.Max(b.YMax, finiteMax(op.Y2))
		b.YMin = math.Min(b.YMin, finiteMin(op.Y1))
		b.YMin = math.Min(b.YMin, finiteMin(op.Y2))
	}
	if math.IsInf(b.XMin, 0) {
		b.XMin, b.XMax = 0, 1
	}
	if b.XMax <= b.XMin {
		b.XMin, b.XMax = b.XMin-1, b.XMax+1
	}
	if b.YMax <= b.YMin {
		b.YMax = b.YMin + 1
	}
	return b
}

// Ticks returns n evenly spaced values from lo to hi inclusive.
func Ticks(lo, hi float64, n int) []float64 {
	if n < 2 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

func clone(s []float64) []float64 {
	return append([]float64(nil), s...)
}

func finiteMax(s []float64) float64 {
	m := math.Inf(-1)
	for _, v := range s {
		if !math.IsNaN(v) && !math.IsInf(v, 0) && v > m {
			m = v
		}
	}
	if math.IsInf(m, -1) {
		return 0
	}
	return m
}

func finiteMin(s []float64) float64 {
	m := math.Inf(1)
	for _, v := range s {
		if !math.IsNaN(v) && !math.IsInf(v, 0) && v < m {
			m = v
		}
	}
	if math.IsInf(m, 1) {
		return 0
	}
	return m
}
