package solar

import (
	"math"

	"github.com/soniakeys/unit"
)

// Orbit holds the sun's geometric orbital elements for a single
// instant.
type Orbit struct {
	Century       float64    // Julian centuries since J2000
	MeanLongitude unit.Angle // in [0°, 360°)
	MeanAnomaly   unit.Angle // unreduced
	Eccentricity  float64    // of the earth's orbit
}

// NewOrbit evaluates the orbital elements at Julian century t.
func NewOrbit(t float64) Orbit {
	return Orbit{
		Century:       t,
		MeanLongitude: MeanLongitude(t),
		MeanAnomaly:   MeanAnomaly(t),
		Eccentricity:  Eccentricity(t),
	}
}

// MeanLongitude is the sun's geometric mean longitude.
func MeanLongitude(t float64) unit.Angle {
	l := math.Mod(280.46646+t*(36000.76983+t*0.0003032), 360)
	if l < 0 {
		l += 360
	}
	return deg(l)
}

// MeanAnomaly calculates the angle the mean sun has swept since
// perihelion. The value is not reduced to a single turn.
func MeanAnomaly(t float64) unit.Angle {
	return deg(357.52911 + t*(35999.05029-0.0001537*t))
}

// Eccentricity of the earth's orbit.
func Eccentricity(t float64) float64 {
	return 0.016708634 - t*(0.000042037+0.0000001267*t)
}
