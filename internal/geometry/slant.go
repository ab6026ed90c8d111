package geometry

import (
	"math"
)

// nadirTolerance is the relative distance below h still treated as nadir.
const nadirTolerance = 1e-9

// SlantToGround converts a slant range to the ground range along the surface
// from nadir and the local incidence angle (radians), using the spherical
// model:
//
//	cos(alpha) = (re^2 + (re+h)^2 - R^2) / (2 re (re+h))
//	ground     = re * alpha
//	incidence  = look + alpha, sin(look) = re sin(alpha) / R
//
// Both results are NaN when R has no real ground solution: R is not finite,
// shorter than the platform height, or beyond the geometric horizon.
func SlantToGround(slant float64, p Platform) (ground, incidence float64) {
	// Folded ranges land on h only up to rounding.
	if slant < p.Height && p.Height-slant <= nadirTolerance*p.Height {
		slant = p.Height
	}
	if !isFinite(slant) || slant < p.Height || slant > p.exactHorizon() {
		return math.NaN(), math.NaN()
	}

	re := p.EarthRadius
	rs := p.Height + re

	cosAlpha := clampUnit((re*re + rs*rs - slant*slant) / (2 * re * rs))
	alpha := math.Acos(cosAlpha)

	sinLook := clampUnit(re * math.Sin(alpha) / slant)
	look := math.Asin(sinLook)

	return re * alpha, look + alpha
}

// SlantToGroundSlice applies SlantToGround elementwise. ground and incidence
// must have the same length as slant; incidence may be nil when not needed.
func SlantToGroundSlice(ground, incidence, slant []float64, p Platform) error {
	if err := CheckLengths("slant to ground", len(slant), ground); err != nil {
		return err
	}
	if incidence != nil {
		if err := CheckLengths("slant to ground", len(slant), incidence); err != nil {
			return err
		}
	}

	for i, r := range slant {
		g, th := SlantToGround(r, p)
		ground[i] = g
		if incidence != nil {
			incidence[i] = th
		}
	}
	return nil
}

// GroundToSlant is the inverse of SlantToGround for ground ranges between
// nadir and the horizon.
func GroundToSlant(ground float64, p Platform) float64 {
	if !isFinite(ground) || ground < 0 || ground > p.HorizonGroundRange() {
		return math.NaN()
	}
	re := p.EarthRadius
	rs := p.Height + re
	alpha := ground / re
	return math.Sqrt(re*re + rs*rs - 2*re*rs*math.Cos(alpha))
}

// clampUnit keeps acos/asin arguments inside [-1, 1] against rounding error.
func clampUnit(v float64) float64 {
	if v > 1 {
		return 1
	} else if v < -1 {
		return -1
	}
	return v
}
