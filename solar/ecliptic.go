package solar

import (
	"math"

	"github.com/soniakeys/unit"
)

// Position is the sun's apparent geocentric position.
type Position struct {
	EquationOfCenter   unit.Angle
	TrueLongitude      unit.Angle
	TrueAnomaly        unit.Angle
	ApparentLongitude  unit.Angle
	MeanObliquity      unit.Angle
	ObliquityCorrected unit.Angle
	RightAscension     unit.Angle // in (-180°, 180°]
	Declination        unit.Angle
}

// EquationOfTheCenter calculates the angular difference
// between the position of the actual sun (with an elliptical
// orbit) and the mean sun (with a circular orbit). This
// can be expressed as a function of mean anomaly and
// Julian century.
//
// https://en.wikipedia.org/wiki/Equation_of_the_center
func EquationOfTheCenter(o Orbit) unit.Angle {
	t := o.Century
	m := o.MeanAnomaly

	firstOrder := math.Sin(m.Rad()) * (1.914602 - t*(0.004817+0.000014*t))
	secondOrder := math.Sin(2*m.Rad()) * (0.019993 - 0.000101*t)
	thirdOrder := math.Sin(3*m.Rad()) * 0.000289

	return deg(firstOrder + secondOrder + thirdOrder)
}

// ascendingNode is the longitude of the moon's ascending node. It is
// the argument of both nutation terms: the longitude correction in
// ApparentLongitude and the obliquity correction in CorrectedObliquity.
// The node regresses 1934.136° per Julian century.
func ascendingNode(t float64) unit.Angle {
	return deg(125.04 - 1934.136*t)
}

// ApparentLongitude corrects the true longitude for nutation and
// aberration.
func ApparentLongitude(trueLongitude unit.Angle, t float64) unit.Angle {
	return deg(trueLongitude.Deg() - 0.00569 - 0.00478*ascendingNode(t).Sin())
}

// MeanObliquity is the mean tilt of the earth's axis against the
// ecliptic, 23°26'21.448" at J2000.
func MeanObliquity(t float64) unit.Angle {
	seconds := 21.448 - t*(46.815+t*(0.00059-t*0.001813))
	return unit.NewAngle(' ', 23, 26, seconds)
}

// CorrectedObliquity adds the nutation in obliquity to the mean
// obliquity.
func CorrectedObliquity(mean unit.Angle, t float64) unit.Angle {
	return deg(mean.Deg() + 0.00256*ascendingNode(t).Cos())
}

// NewPosition derives the sun's apparent position from its orbital
// elements.
func NewPosition(o Orbit) Position {
	t := o.Century
	c := EquationOfTheCenter(o)
	p := Position{
		EquationOfCenter: c,
		TrueLongitude:    o.MeanLongitude + c,
		TrueAnomaly:      o.MeanAnomaly + c,
		MeanObliquity:    MeanObliquity(t),
	}
	p.ApparentLongitude = ApparentLongitude(p.TrueLongitude, t)
	p.ObliquityCorrected = CorrectedObliquity(p.MeanObliquity, t)

	sinLambda, cosLambda := math.Sincos(p.ApparentLongitude.Rad())
	sinEps, cosEps := math.Sincos(p.ObliquityCorrected.Rad())
	p.RightAscension = unit.Angle(math.Atan2(cosEps*sinLambda, cosLambda))
	p.Declination = unit.Angle(math.Asin(clamp(sinEps * sinLambda)))
	return p
}
