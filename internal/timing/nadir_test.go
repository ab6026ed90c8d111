package timing

import (
	"errors"
	"math"
	"testing"

	"github.com/litescript/ls-timing/internal/geometry"
)

func TestLocateNadir_ClippedToHorizon(t *testing.T) {
	p := geometry.DefaultPlatform()
	horizon := p.HorizonSlantRange()

	traces, err := LocateNadir(p, 3000, 20000, 50)
	if err != nil {
		t.Fatalf("LocateNadir: %v", err)
	}
	if len(traces) == 0 {
		t.Fatal("no traces")
	}

	saturated := 0
	for _, tr := range traces {
		for i, r := range tr.Slant {
			if r > horizon {
				t.Fatalf("trace m=%d n=%d: slant[%d] = %v exceeds horizon %v", tr.M, tr.N, i, r, horizon)
			}
			if r == horizon {
				saturated++
			}
		}
	}
	if saturated == 0 {
		t.Error("expected some nadir returns to saturate at the horizon")
	}
}

func TestLocateNadir_OrderBounds(t *testing.T) {
	p := geometry.DefaultPlatform()

	traces, err := LocateNadir(p, 3000, 20000, 50)
	if err != nil {
		t.Fatalf("LocateNadir: %v", err)
	}

	// nMin = floor(2h*3000/c) = 10, nMax = floor(2*horizon*20000/c) = 343,
	// mMin = 10, mMax = ceil(2h*20000/c) = 67.
	minN, maxN, minM, maxM := math.MaxInt, math.MinInt, math.MaxInt, math.MinInt
	for _, tr := range traces {
		minN, maxN = min(minN, tr.N), max(maxN, tr.N)
		minM, maxM = min(minM, tr.M), max(maxM, tr.M)
	}
	if minN != 10 || maxN != 342 {
		t.Errorf("n range = [%d, %d], want [10, 342]", minN, maxN)
	}
	if minM != 10 || maxM != 66 {
		t.Errorf("m range = [%d, %d], want [10, 66]", minM, maxM)
	}
	if want := (67 - 10) * (343 - 10); len(traces) != want {
		t.Errorf("len(traces) = %d, want %d", len(traces), want)
	}
}

func TestLocateNadir_OrderCountGrows(t *testing.T) {
	p := geometry.DefaultPlatform()

	prev := 0
	for _, prfMax := range []float64{3500, 5000, 8000, 12000, 20000} {
		traces, err := LocateNadir(p, 3000, prfMax, 50)
		if err != nil {
			t.Fatalf("LocateNadir(%v): %v", prfMax, err)
		}
		orders := make(map[int]bool)
		for _, tr := range traces {
			orders[tr.N] = true
		}
		if len(orders) < prev {
			t.Errorf("prfMax=%v: %d distinct orders, fewer than %d", prfMax, len(orders), prev)
		}
		prev = len(orders)
	}
	if prev == 0 {
		t.Error("no orders found")
	}
}

func TestLocateNadir_SubBandLimits(t *testing.T) {
	p := geometry.DefaultPlatform()
	edge := p.SpeedOfLight / (2 * p.Height)
	res := 10.0

	traces, err := LocateNadir(p, 3000, 4000, res)
	if err != nil {
		t.Fatalf("LocateNadir: %v", err)
	}
	for _, tr := range traces {
		lo := float64(tr.M)*edge + res
		hi := float64(tr.M+1)*edge - res
		first, last := tr.PRF[0], tr.PRF[len(tr.PRF)-1]
		if math.Abs(first-lo) > 1e-9 || math.Abs(last-hi) > 1e-9 {
			t.Fatalf("m=%d band = [%v, %v], want [%v, %v]", tr.M, first, last, lo, hi)
		}
		if want := int(1 + (hi-lo)/res); len(tr.PRF) != want {
			t.Fatalf("m=%d samples = %d, want %d", tr.M, len(tr.PRF), want)
		}
	}
}

func TestLocateNadir_DegenerateBandSkipped(t *testing.T) {
	p := geometry.DefaultPlatform()

	// Each sub-band is c/(2h) ~ 299.8 Hz wide; trimming 150 Hz from both
	// edges leaves nothing.
	traces, err := LocateNadir(p, 3000, 6000, 150)
	if err != nil {
		t.Fatalf("LocateNadir: %v", err)
	}
	if len(traces) != 0 {
		t.Errorf("len(traces) = %d, want 0", len(traces))
	}

	sink := &recordSink{}
	if err := DrawNadir(sink, p, 3000, 6000, 150); err != nil {
		t.Fatalf("DrawNadir: %v", err)
	}
	if len(sink.lines) != 0 {
		t.Errorf("drew %d lines, want 0", len(sink.lines))
	}
}

func TestLocateNadir_SingleSampleNotDrawn(t *testing.T) {
	p := geometry.DefaultPlatform()

	// 149 Hz trims leave a band ~1.8 Hz wide: one sample per trace.
	traces, err := LocateNadir(p, 3000, 4000, 149)
	if err != nil {
		t.Fatalf("LocateNadir: %v", err)
	}
	if len(traces) == 0 {
		t.Fatal("expected single-sample traces")
	}
	for _, tr := range traces {
		if len(tr.PRF) != 1 {
			t.Fatalf("m=%d n=%d has %d samples, want 1", tr.M, tr.N, len(tr.PRF))
		}
	}

	sink := &recordSink{}
	if err := DrawNadir(sink, p, 3000, 4000, 149); err != nil {
		t.Fatalf("DrawNadir: %v", err)
	}
	if len(sink.lines) != 0 {
		t.Errorf("drew %d lines, want 0", len(sink.lines))
	}
}

func TestNadirSlant_FoldsToHeight(t *testing.T) {
	p := geometry.DefaultPlatform()
	horizon := p.HorizonSlantRange()

	// Inside period offset m, order n=m is the direct nadir echo.
	for _, prf := range []float64{3100, 7777, 15000} {
		m := int(math.Floor(2 * p.Height * prf / p.SpeedOfLight))
		got := nadirSlant(prf, m, p, horizon)
		if math.Abs(got-p.Height) > 1e-6 {
			t.Errorf("prf=%v: nadirSlant(n=m) = %v, want %v", prf, got, p.Height)
		}
		next := nadirSlant(prf, m+1, p, horizon)
		if math.Abs(next-p.Height-p.RangePeriod(prf)) > 1e-6 {
			t.Errorf("prf=%v: nadirSlant(n=m+1) = %v, want h + c/2prf", prf, next)
		}
	}
}

func TestNadirTrace_Segments(t *testing.T) {
	nan, inf := math.NaN(), math.Inf(1)
	tr := NadirTrace{Ground: []float64{nan, 1, 2, nan, 3, inf, 4, 5}}

	got := tr.Segments()
	want := []Segment{{1, 3}, {4, 5}, {6, 8}}
	if len(got) != len(want) {
		t.Fatalf("Segments() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("segment %d = %v, want %v", i, got[i], want[i])
		}
	}

	if segs := (NadirTrace{Ground: []float64{nan, nan}}).Segments(); len(segs) != 0 {
		t.Errorf("all-NaN trace: Segments() = %v, want none", segs)
	}
}

func TestNadirTrace_Paths(t *testing.T) {
	nan, inf := math.NaN(), math.Inf(1)
	tr := NadirTrace{
		M:      12,
		N:      30,
		PRF:    []float64{1, 2, 3, 4, 5, 6, 7, 8},
		Ground: []float64{nan, 10, 20, nan, 30, inf, 40, 50},
	}

	paths := tr.Paths()
	if len(paths) != 2 {
		t.Fatalf("Paths() = %d paths, want 2 (single samples dropped)", len(paths))
	}
	want := []NadirPath{
		{M: 12, N: 30, PRF: []float64{2, 3}, Ground: []float64{10, 20}},
		{M: 12, N: 30, PRF: []float64{7, 8}, Ground: []float64{40, 50}},
	}
	for i := range want {
		if paths[i].M != want[i].M || paths[i].N != want[i].N ||
			!sameBits(paths[i].PRF, want[i].PRF) || !sameBits(paths[i].Ground, want[i].Ground) {
			t.Errorf("path %d = %+v, want %+v", i, paths[i], want[i])
		}
	}

	// Ground is copied out of the trace.
	tr.Ground[1] = 99
	if paths[0].Ground[0] != 10 {
		t.Error("path aliases trace ground slice")
	}

	if got := NadirPaths([]NadirTrace{tr, {Ground: []float64{nan, nan}}}); len(got) != 2 {
		t.Errorf("NadirPaths() = %d paths, want 2", len(got))
	}
}

func TestDrawNadir_FiniteKilometres(t *testing.T) {
	p := geometry.DefaultPlatform()
	limit := p.HorizonGroundRange() / 1000

	sink := &recordSink{}
	if err := DrawNadir(sink, p, 3000, 5000, 20); err != nil {
		t.Fatalf("DrawNadir: %v", err)
	}
	if len(sink.lines) == 0 {
		t.Fatal("no lines drawn")
	}
	for i, op := range sink.lines {
		if op.color != NadirColor {
			t.Fatalf("line %d color = %q", i, op.color)
		}
		if len(op.xs) < 2 || !allFinite(op.y1) {
			t.Fatalf("line %d: %d points, finite=%v", i, len(op.xs), allFinite(op.y1))
		}
		for _, km := range op.y1 {
			if km < 0 || km > limit+1e-6 {
				t.Fatalf("line %d: ground %v km outside [0, %v]", i, km, limit)
			}
		}
	}
}

func TestLocateNadir_Invalid(t *testing.T) {
	good := geometry.DefaultPlatform()
	bad := good
	bad.Height = 0

	tests := []struct {
		name                string
		p                   geometry.Platform
		prfMin, prfMax, res float64
		param               string
	}{
		{"zero prf min", good, 0, 1000, 1, "prf_min"},
		{"negative prf max", good, 1000, -1, 1, "prf_max"},
		{"max below min", good, 2000, 1000, 1, "prf_max"},
		{"zero resolution", good, 1000, 2000, 0, "prf_resolution"},
		{"zero height", bad, 1000, 2000, 1, "height"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LocateNadir(tt.p, tt.prfMin, tt.prfMax, tt.res)
			var ipe *InvalidParameterError
			if !errors.As(err, &ipe) {
				t.Fatalf("err = %v, want InvalidParameterError", err)
			}
			if ipe.Param != tt.param {
				t.Errorf("Param = %q, want %q", ipe.Param, tt.param)
			}
		})
	}
}

func TestNadirGroundAt(t *testing.T) {
	p := geometry.DefaultPlatform()
	limit := p.HorizonGroundRange()

	got := NadirGroundAt(5000, p)
	if len(got) < 2 {
		t.Fatalf("NadirGroundAt(5000) = %v, want several returns", got)
	}
	// The first return is the direct nadir echo.
	if got[0] > 10 {
		t.Errorf("first return at %v m, want ~0", got[0])
	}
	for i := 1; i < len(got); i++ {
		if got[i] <= got[i-1] {
			t.Errorf("returns not ascending at %d: %v", i, got)
		}
		if got[i] > limit {
			t.Errorf("return %v beyond horizon %v", got[i], limit)
		}
	}
}
