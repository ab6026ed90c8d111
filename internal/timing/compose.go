package timing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/litescript/ls-timing/internal/geometry"
)

// ComposerNadirResolution is the nadir sampling step (Hz) used when a full
// diagram is composed; coarser than DefaultNadirResolution to keep wide
// sweeps cheap to draw.
const ComposerNadirResolution = 5.0

// GroundEnvelope is a TransmitEnvelope projected to the ground. Ground
// ranges without a solution hold 0; incidence angles keep NaN.
type GroundEnvelope struct {
	Order          int
	Begin          []float64 // m
	End            []float64 // m
	BeginIncidence []float64 // rad
	EndIncidence   []float64 // rad
}

// Diagram holds everything needed to draw one timing diagram.
type Diagram struct {
	Platform        geometry.Platform
	DutyCycle       float64
	NadirResolution float64
	PRF             []float64

	Nadir    []NadirPath
	Transmit []TransmitEnvelope
	Ground   []GroundEnvelope
}

// SanitizeGround replaces every non-finite value with 0 in place and returns
// how many were replaced.
func SanitizeGround(values []float64) int {
	replaced := 0
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			values[i] = 0
			replaced++
		}
	}
	return replaced
}

// Build computes a diagram over prfAxis without drawing it. The axis is
// copied, so the caller may reuse its slice. Nadir returns cover
// [prfAxis[0], prfAxis[last]]; when the axis descends there are none and only
// the transmit bands are drawn.
//
// Only drawable nadir paths are kept; use LocateNadir for full traces.
func Build(prfAxis []float64, dutyCycle float64, p geometry.Platform) (*Diagram, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := geometry.CheckPRFAxis(prfAxis); err != nil {
		return nil, err
	}
	if err := geometry.RequireNonNegative("duty_cycle", dutyCycle); err != nil {
		return nil, err
	}

	axis := append([]float64(nil), prfAxis...)
	d := &Diagram{
		Platform:        p,
		DutyCycle:       dutyCycle,
		NadirResolution: ComposerNadirResolution,
		PRF:             axis,
	}

	// A descending axis leaves the nadir band empty; transmit bands are
	// still computed per sample.
	if lo, hi := axis[0], axis[len(axis)-1]; hi >= lo {
		traces, err := LocateNadir(p, lo, hi, ComposerNadirResolution)
		if err != nil {
			return nil, fmt.Errorf("nadir returns: %w", err)
		}
		d.Nadir = NadirPaths(traces)
	}

	transmit, err := LocateTransmit(DefaultOrders(), dutyCycle, axis, p)
	if err != nil {
		return nil, fmt.Errorf("transmit envelopes: %w", err)
	}
	d.Transmit = transmit

	d.Ground = make([]GroundEnvelope, len(transmit))
	for k, env := range transmit {
		ge, err := projectEnvelope(env, p)
		if err != nil {
			return nil, fmt.Errorf("transmit order %d: %w", env.Order, err)
		}
		d.Ground[k] = ge
	}
	return d, nil
}

func projectEnvelope(env TransmitEnvelope, p geometry.Platform) (GroundEnvelope, error) {
	n := len(env.Begin)
	if err := geometry.CheckLengths("transmit envelope", n, env.End); err != nil {
		return GroundEnvelope{}, err
	}

	ge := GroundEnvelope{
		Order:          env.Order,
		Begin:          make([]float64, n),
		End:            make([]float64, n),
		BeginIncidence: make([]float64, n),
		EndIncidence:   make([]float64, n),
	}
	if err := geometry.SlantToGroundSlice(ge.Begin, ge.BeginIncidence, env.Begin, p); err != nil {
		return GroundEnvelope{}, err
	}
	if err := geometry.SlantToGroundSlice(ge.End, ge.EndIncidence, env.End, p); err != nil {
		return GroundEnvelope{}, err
	}
	SanitizeGround(ge.Begin)
	SanitizeGround(ge.End)
	return ge, nil
}

// Draw emits the diagram to sink: nadir lines first, then one filled band per
// transmit order, then the axis label. Ranges are drawn in kilometres.
func (d *Diagram) Draw(sink Sink) error {
	if err := drawNadirPaths(sink, d.Nadir); err != nil {
		return fmt.Errorf("draw nadir: %w", err)
	}

	n := len(d.PRF)
	for _, ge := range d.Ground {
		if err := geometry.CheckLengths("ground envelope", n, ge.Begin, ge.End); err != nil {
			return err
		}
		eot := floats.ScaleTo(make([]float64, n), 1e-3, ge.End)
		bot := floats.ScaleTo(make([]float64, n), 1e-3, ge.Begin)
		if err := sink.FillBetween(d.PRF, eot, bot, TransmitColor); err != nil {
			return fmt.Errorf("draw transmit order %d: %w", ge.Order, err)
		}
	}

	sink.SetXLabel(PRFAxisLabel)
	return nil
}

// Bytes per retained path besides its samples: two ints and two slice
// headers.
const nadirPathOverhead = 64

// Footprint estimates the bytes held by the diagram's sample slices.
// Sub-band PRF samples shared between paths of the same M are counted once.
func (d *Diagram) Footprint() int {
	samples := len(d.PRF)
	bands := make(map[int]int)
	for _, path := range d.Nadir {
		samples += len(path.Ground)
		bands[path.M] = max(bands[path.M], len(path.PRF))
	}
	for _, n := range bands {
		samples += n
	}
	for _, env := range d.Transmit {
		samples += len(env.Begin) + len(env.End)
	}
	for _, ge := range d.Ground {
		samples += len(ge.Begin) + len(ge.End) + len(ge.BeginIncidence) + len(ge.EndIncidence)
	}
	return 8*samples + nadirPathOverhead*len(d.Nadir)
}

// Compose builds a diagram and draws it to sink.
func Compose(sink Sink, prfAxis []float64, dutyCycle float64, p geometry.Platform) error {
	d, err := Build(prfAxis, dutyCycle, p)
	if err != nil {
		return err
	}
	return d.Draw(sink)
}

// Option adjusts the platform used by PlotTimingDiagram.
type Option func(*geometry.Platform)

// WithHeight sets the platform height in metres.
func WithHeight(h float64) Option {
	return func(p *geometry.Platform) { p.Height = h }
}

// WithEarthRadius sets the planetary radius in metres.
func WithEarthRadius(re float64) Option {
	return func(p *geometry.Platform) { p.EarthRadius = re }
}

// WithSpeedOfLight sets the propagation speed in metres per second.
func WithSpeedOfLight(c float64) Option {
	return func(p *geometry.Platform) { p.SpeedOfLight = c }
}

// PlotTimingDiagram draws a timing diagram for prfAxis and dutyCycle.
// Without options the platform is geometry.DefaultPlatform(). A descending
// axis draws transmit bands without nadir returns, as Build does.
func PlotTimingDiagram(sink Sink, prfAxis []float64, dutyCycle float64, opts ...Option) error {
	p := geometry.DefaultPlatform()
	for _, opt := range opts {
		opt(&p)
	}
	return Compose(sink, prfAxis, dutyCycle, p)
}
