package timing

import (
	"errors"
	"math"
	"testing"

	"github.com/litescript/ls-timing/internal/geometry"
)

// recordSink keeps a copy of every drawing call.
type recordSink struct {
	lines  []recordedOp
	fills  []recordedOp
	xlabel string
}

type recordedOp struct {
	xs, y1, y2 []float64
	color      string
}

func (r *recordSink) Line(xs, ys []float64, color string) error {
	if err := geometry.CheckLengths("line", len(xs), ys); err != nil {
		return err
	}
	r.lines = append(r.lines, recordedOp{
		xs:    append([]float64(nil), xs...),
		y1:    append([]float64(nil), ys...),
		color: color,
	})
	return nil
}

func (r *recordSink) FillBetween(xs, y1, y2 []float64, color string) error {
	if err := geometry.CheckLengths("fill", len(xs), y1, y2); err != nil {
		return err
	}
	r.fills = append(r.fills, recordedOp{
		xs:    append([]float64(nil), xs...),
		y1:    append([]float64(nil), y1...),
		y2:    append([]float64(nil), y2...),
		color: color,
	})
	return nil
}

func (r *recordSink) SetXLabel(label string) {
	r.xlabel = label
}

// failSink rejects every fill.
type failSink struct {
	recordSink
}

var errSinkFull = errors.New("sink full")

func (f *failSink) FillBetween(xs, y1, y2 []float64, color string) error {
	return errSinkFull
}

func sameBits(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Float64bits(a[i]) != math.Float64bits(b[i]) {
			return false
		}
	}
	return true
}

func sameOps(t *testing.T, kind string, a, b []recordedOp) {
	t.Helper()
	if len(a) != len(b) {
		t.Fatalf("%s count = %d vs %d", kind, len(a), len(b))
	}
	for i := range a {
		if a[i].color != b[i].color ||
			!sameBits(a[i].xs, b[i].xs) ||
			!sameBits(a[i].y1, b[i].y1) ||
			!sameBits(a[i].y2, b[i].y2) {
			t.Fatalf("%s %d differs between runs", kind, i)
		}
	}
}

func allFinite(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func scenarioAxis(t *testing.T) []float64 {
	t.Helper()
	axis, err := geometry.PRFAxis(3000, 20000, 1000)
	if err != nil {
		t.Fatalf("PRFAxis: %v", err)
	}
	return axis
}
