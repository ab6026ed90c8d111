// Package geometry provides spherical-earth range geometry for a nadir-looking
// or side-looking spaceborne radar.
package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Default platform parameters (SI units).
const (
	DefaultHeight       = 500e3     // m above the surface
	DefaultEarthRadius  = 6371e3    // m, mean spherical radius
	DefaultSpeedOfLight = 299792458 // m/s
)

// Platform describes the radar platform above a spherical planet.
type Platform struct {
	Height       float64 // h, metres above the surface
	EarthRadius  float64 // re, metres
	SpeedOfLight float64 // c, metres per second
}

// DefaultPlatform returns a 500 km orbit over a spherical Earth.
func DefaultPlatform() Platform {
	return Platform{
		Height:       DefaultHeight,
		EarthRadius:  DefaultEarthRadius,
		SpeedOfLight: DefaultSpeedOfLight,
	}
}

// Validate checks that all platform parameters are finite and positive.
func (p Platform) Validate() error {
	if err := RequirePositive("height", p.Height); err != nil {
		return err
	}
	if err := RequirePositive("earth_radius", p.EarthRadius); err != nil {
		return err
	}
	return RequirePositive("speed_of_light", p.SpeedOfLight)
}

// HorizonSlantRange is the slant range to the visible horizon, floored to
// whole metres: floor(sqrt((h+re)^2 - re^2)).
func (p Platform) HorizonSlantRange() float64 {
	return math.Floor(p.exactHorizon())
}

// HorizonGroundRange is the arc length from nadir to the visible horizon.
func (p Platform) HorizonGroundRange() float64 {
	return p.EarthRadius * math.Acos(p.EarthRadius/(p.Height+p.EarthRadius))
}

// exactHorizon is the unfloored horizon slant range.
func (p Platform) exactHorizon() float64 {
	rs := p.Height + p.EarthRadius
	return math.Sqrt(rs*rs - p.EarthRadius*p.EarthRadius)
}

// RangePeriod is the slant range covered by one inter-pulse period, c/(2*prf).
func (p Platform) RangePeriod(prf float64) float64 {
	return p.SpeedOfLight / (2 * prf)
}

func (p Platform) String() string {
	return fmt.Sprintf("h=%.0fm re=%.0fm c=%.0fm/s", p.Height, p.EarthRadius, p.SpeedOfLight)
}

// CheckPRFAxis verifies that every sample is finite and strictly positive.
func CheckPRFAxis(axis []float64) error {
	if len(axis) == 0 {
		return &InvalidParameterError{Param: "prf_axis", Value: 0, Reason: "must not be empty"}
	}
	for i, prf := range axis {
		if err := RequirePositive(fmt.Sprintf("prf_axis[%d]", i), prf); err != nil {
			return err
		}
	}
	return nil
}

// PRFAxis builds an evenly spaced axis from start to stop inclusive.
// A stop that is not reached by a whole number of steps is dropped.
func PRFAxis(start, stop, step float64) ([]float64, error) {
	if err := RequirePositive("prf_start", start); err != nil {
		return nil, err
	}
	if err := RequirePositive("prf_stop", stop); err != nil {
		return nil, err
	}
	if err := RequirePositive("prf_step", step); err != nil {
		return nil, err
	}
	if stop < start {
		return nil, &InvalidParameterError{Param: "prf_stop", Value: stop, Reason: "must be >= prf_start"}
	}

	// Small slack so 3000..20000 step 1000 keeps its last sample.
	n := int(math.Floor((stop-start)/step+1e-9)) + 1
	if n == 1 {
		return []float64{start}, nil
	}
	return floats.Span(make([]float64, n), start, start+float64(n-1)*step), nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
