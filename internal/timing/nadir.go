// Package timing computes radar timing diagrams: the ground ranges where
// nadir echoes land and where transmit pulses blind the receiver, over a
// sweep of pulse repetition frequencies.
package timing

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/litescript/ls-timing/internal/geometry"
)

// DefaultNadirResolution is the PRF sampling step (Hz) for nadir traces.
const DefaultNadirResolution = 1.0

// NadirTrace is the nadir return of ambiguity order N inside the PRF
// sub-band of period offset M. Ground and Incidence are NaN where the slant
// range has no ground solution.
type NadirTrace struct {
	M int
	N int

	PRF       []float64 // Hz; shared by every trace of the same M
	Slant     []float64 // m, saturated at the horizon slant range
	Ground    []float64 // m
	Incidence []float64 // rad
}

// Segment is a half-open index range [Start, End) into a trace.
type Segment struct {
	Start int
	End   int
}

// Len returns the number of samples in the segment.
func (s Segment) Len() int {
	return s.End - s.Start
}

// Segments splits the trace into maximal runs of finite ground range.
func (t NadirTrace) Segments() []Segment {
	var segs []Segment
	start := -1
	for i, g := range t.Ground {
		finite := !math.IsNaN(g) && !math.IsInf(g, 0)
		switch {
		case finite && start < 0:
			start = i
		case !finite && start >= 0:
			segs = append(segs, Segment{Start: start, End: i})
			start = -1
		}
	}
	if start >= 0 {
		segs = append(segs, Segment{Start: start, End: len(t.Ground)})
	}
	return segs
}

// NadirPath is one drawable run of a nadir trace: two or more samples, all
// with a finite ground range.
type NadirPath struct {
	M int
	N int

	PRF    []float64 // Hz; sub-slice of the trace's shared band
	Ground []float64 // m
}

// Paths returns the drawable runs of the trace. Ground values are copied so
// the trace's own slices can be released.
func (t NadirTrace) Paths() []NadirPath {
	var paths []NadirPath
	for _, seg := range t.Segments() {
		if seg.Len() < 2 {
			continue
		}
		paths = append(paths, NadirPath{
			M:      t.M,
			N:      t.N,
			PRF:    t.PRF[seg.Start:seg.End:seg.End],
			Ground: append([]float64(nil), t.Ground[seg.Start:seg.End]...),
		})
	}
	return paths
}

// NadirPaths collects the drawable runs of every trace, in trace order.
func NadirPaths(traces []NadirTrace) []NadirPath {
	var paths []NadirPath
	for _, tr := range traces {
		paths = append(paths, tr.Paths()...)
	}
	return paths
}

// nadirOrders holds the enumeration bounds for a PRF band. Both ranges are
// half-open.
type nadirOrders struct {
	nMin, nMax int
	mMin, mMax int
}

func nadirOrderBounds(p geometry.Platform, prfMin, prfMax float64) nadirOrders {
	h, c := p.Height, p.SpeedOfLight
	horizon := p.HorizonSlantRange()
	return nadirOrders{
		nMin: int(math.Floor(2 * h * prfMin / c)),
		nMax: int(math.Floor(2 * horizon * prfMax / c)),
		mMin: int(math.Floor(2 * h * prfMin / c)),
		mMax: int(math.Ceil(2 * h * prfMax / c)),
	}
}

// nadirSubBand samples the PRFs for which the platform height folds into
// period offset m, staying resolution Hz clear of both band edges.
// It reports false when the band is empty.
func nadirSubBand(m int, p geometry.Platform, resolution float64) ([]float64, bool) {
	edge := p.SpeedOfLight / (2 * p.Height)
	lo := float64(m)*edge + resolution
	hi := float64(m+1)*edge - resolution
	if hi <= lo {
		return nil, false
	}

	count := int(1 + (hi-lo)/resolution)
	if count < 2 {
		return []float64{lo}, true
	}
	return floats.Span(make([]float64, count), lo, hi), true
}

// nadirSlant is the folded slant range of the order-n nadir return at prf,
// saturated at the horizon.
func nadirSlant(prf float64, n int, p geometry.Platform, horizon float64) float64 {
	period := p.RangePeriod(prf)
	r := math.Mod(p.Height, period) + float64(n)*period
	if r > horizon {
		return horizon
	}
	return r
}

func checkNadirBand(p geometry.Platform, prfMin, prfMax, resolution float64) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := geometry.RequirePositive("prf_min", prfMin); err != nil {
		return err
	}
	if err := geometry.RequirePositive("prf_max", prfMax); err != nil {
		return err
	}
	if err := geometry.RequirePositive("prf_resolution", resolution); err != nil {
		return err
	}
	if prfMax < prfMin {
		return &InvalidParameterError{Param: "prf_max", Value: prfMax, Reason: "must be >= prf_min"}
	}
	return nil
}

// LocateNadir enumerates every (m, n) nadir return between prfMin and
// prfMax. Period offsets whose sub-band is empty contribute no traces.
func LocateNadir(p geometry.Platform, prfMin, prfMax, resolution float64) ([]NadirTrace, error) {
	if err := checkNadirBand(p, prfMin, prfMax, resolution); err != nil {
		return nil, err
	}

	horizon := p.HorizonSlantRange()
	b := nadirOrderBounds(p, prfMin, prfMax)

	var traces []NadirTrace
	for m := b.mMin; m < b.mMax; m++ {
		band, ok := nadirSubBand(m, p, resolution)
		if !ok {
			continue
		}
		for n := b.nMin; n < b.nMax; n++ {
			tr := NadirTrace{
				M:         m,
				N:         n,
				PRF:       band,
				Slant:     make([]float64, len(band)),
				Ground:    make([]float64, len(band)),
				Incidence: make([]float64, len(band)),
			}
			for i, prf := range band {
				tr.Slant[i] = nadirSlant(prf, n, p, horizon)
			}
			if err := geometry.SlantToGroundSlice(tr.Ground, tr.Incidence, tr.Slant, p); err != nil {
				return nil, err
			}
			traces = append(traces, tr)
		}
	}
	return traces, nil
}

// DrawNadir locates the nadir returns for a PRF band and draws them.
func DrawNadir(sink Sink, p geometry.Platform, prfMin, prfMax, resolution float64) error {
	traces, err := LocateNadir(p, prfMin, prfMax, resolution)
	if err != nil {
		return err
	}
	return drawNadirPaths(sink, NadirPaths(traces))
}

// drawNadirPaths draws every path as a line in kilometres.
func drawNadirPaths(sink Sink, paths []NadirPath) error {
	for _, path := range paths {
		km := floats.ScaleTo(make([]float64, len(path.Ground)), 1e-3, path.Ground)
		if err := sink.Line(path.PRF, km, NadirColor); err != nil {
			return err
		}
	}
	return nil
}

// NadirGroundAt returns the ground ranges of every nadir return that lands
// between nadir and the horizon at a single PRF, nearest first.
func NadirGroundAt(prf float64, p geometry.Platform) []float64 {
	horizon := p.HorizonSlantRange()
	b := nadirOrderBounds(p, prf, prf)

	var out []float64
	for n := b.nMin; n < b.nMax; n++ {
		r := nadirSlant(prf, n, p, horizon)
		if r >= horizon {
			break
		}
		if g, _ := geometry.SlantToGround(r, p); !math.IsNaN(g) {
			out = append(out, g)
		}
	}
	return out
}
