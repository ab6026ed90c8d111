package geometry

import (
	"errors"
	"math"
	"testing"
)

func TestHorizonSlantRange_DefaultPlatform(t *testing.T) {
	p := DefaultPlatform()

	want := math.Floor(math.Sqrt(math.Pow(500000+6371000, 2) - math.Pow(6371000, 2)))
	got := p.HorizonSlantRange()
	if got != want {
		t.Errorf("HorizonSlantRange() = %v, want %v", got, want)
	}
	if got != 2573130 {
		t.Errorf("HorizonSlantRange() = %v, want 2573130", got)
	}
	if got != math.Trunc(got) {
		t.Errorf("HorizonSlantRange() = %v, want whole metres", got)
	}
}

func TestHorizonSlantRange_Monotonic(t *testing.T) {
	heights := []float64{1, 100, 10e3, 250e3, 500e3, 700e3, 1200e3, 36000e3}

	prev := -1.0
	for _, h := range heights {
		p := DefaultPlatform()
		p.Height = h
		got := p.HorizonSlantRange()
		if got <= prev {
			t.Errorf("HorizonSlantRange(h=%v) = %v, not greater than %v", h, got, prev)
		}
		prev = got
	}
}

func TestSlantToGround_Nadir(t *testing.T) {
	p := DefaultPlatform()

	ground, inc := SlantToGround(p.Height, p)
	if math.Abs(ground) > 1 {
		t.Errorf("ground at nadir = %v, want 0", ground)
	}
	if math.Abs(inc) > 1e-6 {
		t.Errorf("incidence at nadir = %v, want 0", inc)
	}
}

func TestSlantToGround_Horizon(t *testing.T) {
	p := DefaultPlatform()

	ground, inc := SlantToGround(p.exactHorizon(), p)
	if math.Abs(ground-p.HorizonGroundRange()) > 1 {
		t.Errorf("ground at horizon = %v, want %v", ground, p.HorizonGroundRange())
	}
	if math.Abs(inc-math.Pi/2) > 1e-6 {
		t.Errorf("incidence at horizon = %v rad, want pi/2", inc)
	}
}

func TestSlantToGround_NoSolution(t *testing.T) {
	p := DefaultPlatform()

	tests := []struct {
		name  string
		slant float64
	}{
		{"below platform height", p.Height - 1},
		{"negative", -10},
		{"beyond horizon", p.exactHorizon() + 10},
		{"NaN", math.NaN()},
		{"+Inf", math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ground, inc := SlantToGround(tt.slant, p)
			if !math.IsNaN(ground) || !math.IsNaN(inc) {
				t.Errorf("SlantToGround(%v) = (%v, %v), want NaN", tt.slant, ground, inc)
			}
		})
	}
}

func TestSlantToGround_RoundTrip(t *testing.T) {
	p := DefaultPlatform()

	for ground := 10e3; ground < p.HorizonGroundRange(); ground += 50e3 {
		slant := GroundToSlant(ground, p)
		back, _ := SlantToGround(slant, p)
		if math.Abs(back-ground) > 0.5 {
			t.Errorf("round trip ground %v -> slant %v -> %v", ground, slant, back)
		}
	}
}

func TestSlantToGround_IncreasingGround(t *testing.T) {
	p := DefaultPlatform()

	prevGround, prevInc := -1.0, -1.0
	for slant := p.Height; slant < p.HorizonSlantRange(); slant += 25e3 {
		g, inc := SlantToGround(slant, p)
		if g <= prevGround || inc <= prevInc {
			t.Fatalf("slant %v: ground %v inc %v not increasing", slant, g, inc)
		}
		prevGround, prevInc = g, inc
	}
}

func TestSlantToGroundSlice(t *testing.T) {
	p := DefaultPlatform()
	slant := []float64{p.Height, 800e3, 10}

	ground := make([]float64, 3)
	inc := make([]float64, 3)
	if err := SlantToGroundSlice(ground, inc, slant, p); err != nil {
		t.Fatalf("SlantToGroundSlice: %v", err)
	}
	if math.IsNaN(ground[1]) || ground[1] <= 0 {
		t.Errorf("ground[1] = %v, want positive", ground[1])
	}
	if !math.IsNaN(ground[2]) || !math.IsNaN(inc[2]) {
		t.Errorf("ground[2], inc[2] = %v, %v, want NaN", ground[2], inc[2])
	}

	// Incidence output is optional.
	if err := SlantToGroundSlice(ground, nil, slant, p); err != nil {
		t.Errorf("nil incidence: %v", err)
	}
}

func TestSlantToGroundSlice_ShapeMismatch(t *testing.T) {
	p := DefaultPlatform()

	err := SlantToGroundSlice(make([]float64, 2), nil, make([]float64, 3), p)
	if !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("err = %v, want ErrShapeMismatch", err)
	}
	var sme *ShapeMismatchError
	if !errors.As(err, &sme) || sme.Want != 3 || sme.Got != 2 {
		t.Errorf("err = %#v, want Want=3 Got=2", err)
	}
}

func TestPlatformValidate(t *testing.T) {
	tests := []struct {
		name  string
		mod   func(*Platform)
		param string
	}{
		{"default", func(*Platform) {}, ""},
		{"zero height", func(p *Platform) { p.Height = 0 }, "height"},
		{"negative height", func(p *Platform) { p.Height = -5 }, "height"},
		{"NaN radius", func(p *Platform) { p.EarthRadius = math.NaN() }, "earth_radius"},
		{"zero c", func(p *Platform) { p.SpeedOfLight = 0 }, "speed_of_light"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultPlatform()
			tt.mod(&p)
			err := p.Validate()
			if tt.param == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			var ipe *InvalidParameterError
			if !errors.As(err, &ipe) {
				t.Fatalf("Validate() = %v, want InvalidParameterError", err)
			}
			if ipe.Param != tt.param {
				t.Errorf("Param = %q, want %q", ipe.Param, tt.param)
			}
			if !errors.Is(err, ErrInvalidParameter) {
				t.Error("errors.Is(err, ErrInvalidParameter) = false")
			}
		})
	}
}

func TestPRFAxis(t *testing.T) {
	axis, err := PRFAxis(3000, 20000, 1000)
	if err != nil {
		t.Fatalf("PRFAxis: %v", err)
	}
	if len(axis) != 18 {
		t.Fatalf("len = %d, want 18", len(axis))
	}
	for i, prf := range axis {
		want := 3000 + float64(i)*1000
		if math.Abs(prf-want) > 1e-9 {
			t.Errorf("axis[%d] = %v, want %v", i, prf, want)
		}
	}

	single, err := PRFAxis(5000, 5000, 10)
	if err != nil || len(single) != 1 || single[0] != 5000 {
		t.Errorf("PRFAxis(5000, 5000, 10) = %v, %v", single, err)
	}

	partial, err := PRFAxis(1000, 1250, 100)
	if err != nil || len(partial) != 3 || partial[2] != 1200 {
		t.Errorf("PRFAxis(1000, 1250, 100) = %v, %v", partial, err)
	}
}

func TestPRFAxis_Invalid(t *testing.T) {
	tests := []struct {
		name              string
		start, stop, step float64
	}{
		{"zero start", 0, 1000, 10},
		{"negative step", 1000, 2000, -1},
		{"stop before start", 2000, 1000, 10},
		{"NaN stop", 1000, math.NaN(), 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := PRFAxis(tt.start, tt.stop, tt.step); !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("err = %v, want ErrInvalidParameter", err)
			}
		})
	}
}

func TestCheckPRFAxis(t *testing.T) {
	if err := CheckPRFAxis([]float64{1000, 2000}); err != nil {
		t.Errorf("valid axis: %v", err)
	}
	if err := CheckPRFAxis(nil); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("empty axis: %v", err)
	}
	err := CheckPRFAxis([]float64{1000, 0, 3000})
	var ipe *InvalidParameterError
	if !errors.As(err, &ipe) || ipe.Param != "prf_axis[1]" {
		t.Errorf("zero sample: %v", err)
	}
}
