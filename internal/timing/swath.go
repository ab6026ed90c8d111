package timing

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/litescript/ls-timing/internal/geometry"
)

// Interval is a closed ground-range interval in metres.
type Interval struct {
	Start float64
	End   float64
}

// Width returns End - Start.
func (iv Interval) Width() float64 {
	return iv.End - iv.Start
}

// Contains reports whether g lies inside the interval.
func (iv Interval) Contains(g float64) bool {
	return g >= iv.Start && g <= iv.End
}

// SwathReport describes the ground coverage at one PRF sample.
type SwathReport struct {
	PRF         float64
	Eclipsed    []Interval // merged, ascending
	Widest      Interval   // widest gap between eclipsed bands; zero if none
	NadirGround []float64  // nadir return ground ranges at this PRF
}

// NadirInWidest reports whether a nadir return falls inside the widest
// clear swath.
func (r SwathReport) NadirInWidest() bool {
	if r.Widest.Width() <= 0 {
		return false
	}
	for _, g := range r.NadirGround {
		if r.Widest.Contains(g) {
			return true
		}
	}
	return false
}

// ClearSwaths analyses PRF sample i: transmit bands are merged and the widest
// clear ground interval between nadir and the horizon is found.
func (d *Diagram) ClearSwaths(i int) (SwathReport, error) {
	if i < 0 || i >= len(d.PRF) {
		return SwathReport{}, &InvalidParameterError{
			Param:  "prf_index",
			Value:  float64(i),
			Reason: fmt.Sprintf("must be in [0, %d)", len(d.PRF)),
		}
	}

	var bands []Interval
	for _, ge := range d.Ground {
		lo := math.Min(ge.Begin[i], ge.End[i])
		hi := math.Max(ge.Begin[i], ge.End[i])
		if hi > lo {
			bands = append(bands, Interval{Start: lo, End: hi})
		}
	}
	merged := mergeIntervals(bands)

	limit, _ := geometry.SlantToGround(d.Platform.HorizonSlantRange(), d.Platform)
	return SwathReport{
		PRF:         d.PRF[i],
		Eclipsed:    merged,
		Widest:      widestGap(merged, limit),
		NadirGround: NadirGroundAt(d.PRF[i], d.Platform),
	}, nil
}

// Summary returns a SwathReport for every PRF sample.
func (d *Diagram) Summary() []SwathReport {
	reports := make([]SwathReport, 0, len(d.PRF))
	for i := range d.PRF {
		r, err := d.ClearSwaths(i)
		if err != nil {
			continue
		}
		reports = append(reports, r)
	}
	return reports
}

func mergeIntervals(in []Interval) []Interval {
	if len(in) == 0 {
		return nil
	}
	sort.Slice(in, func(a, b int) bool { return in[a].Start < in[b].Start })

	out := []Interval{in[0]}
	for _, iv := range in[1:] {
		last := &out[len(out)-1]
		if iv.Start <= last.End {
			last.End = math.Max(last.End, iv.End)
			continue
		}
		out = append(out, iv)
	}
	return out
}

// widestGap finds the widest interval in [0, limit] not covered by merged.
func widestGap(merged []Interval, limit float64) Interval {
	var best Interval
	cursor := 0.0
	consider := func(end float64) {
		if end > limit {
			end = limit
		}
		if end-cursor > best.Width() {
			best = Interval{Start: cursor, End: end}
		}
	}
	for _, iv := range merged {
		consider(iv.Start)
		cursor = math.Max(cursor, iv.End)
	}
	consider(limit)
	return best
}

// WriteSummaryTable writes one row per PRF sample to w.
func WriteSummaryTable(w io.Writer, d *Diagram) {
	fmt.Fprintf(w, "Timing diagram  %s  duty %.1f%%\n", d.Platform, d.DutyCycle*100)
	fmt.Fprintln(w, strings.Repeat("─", 72))

	if len(d.PRF) == 0 {
		fmt.Fprintln(w, "Empty PRF axis")
		return
	}

	fmt.Fprintf(w, "%-10s %-9s %-6s %-26s %-6s\n",
		"PRF [Hz]", "Eclipsed", "Nadir", "Widest clear swath [km]", "Nadir?")
	fmt.Fprintln(w, strings.Repeat("─", 72))

	var (
		found     bool
		bestPRF   float64
		bestWidth float64
	)
	for _, r := range d.Summary() {
		swath := "-"
		if r.Widest.Width() > 0 {
			swath = fmt.Sprintf("%7.1f .. %7.1f (%5.1f)",
				r.Widest.Start/1000, r.Widest.End/1000, r.Widest.Width()/1000)
		}
		hit := "no"
		if r.NadirInWidest() {
			hit = "yes"
		} else if r.Widest.Width() > bestWidth {
			found = true
			bestWidth = r.Widest.Width()
			bestPRF = r.PRF
		}
		fmt.Fprintf(w, "%-10s %-9d %-6d %-26s %-6s\n",
			formatHz(r.PRF), len(r.Eclipsed), len(r.NadirGround), swath, hit)
	}

	if found {
		fmt.Fprintf(w, "\nWidest nadir-free swath: %.1f km at %s Hz\n", bestWidth/1000, formatHz(bestPRF))
	}
}

// formatHz prints a PRF with as many decimals as it needs.
func formatHz(prf float64) string {
	return strconv.FormatFloat(prf, 'f', -1, 64)
}
