package solar

import (
	"math"

	"github.com/soniakeys/unit"
)

// EquationOfTime returns apparent solar time minus mean solar time.
// Over a year it stays within roughly -14 and +17 minutes.
func EquationOfTime(o Orbit, obliquity unit.Angle) Minutes {
	y := math.Tan(obliquity.Rad() / 2)
	y *= y

	l0 := o.MeanLongitude.Rad()
	m := o.MeanAnomaly.Rad()
	e := o.Eccentricity
	sinM := math.Sin(m)

	eq := y*math.Sin(2*l0) -
		2*e*sinM +
		4*e*y*sinM*math.Cos(2*l0) -
		0.5*y*y*math.Sin(4*l0) -
		1.25*e*e*math.Sin(2*m)

	return HourAngleMinutes(unit.Angle(eq))
}

// Ephemeris bundles every quantity derived from a single instant.
type Ephemeris struct {
	JulianDay      JulianDay
	Orbit          Orbit
	Position       Position
	EquationOfTime Minutes
}

// At evaluates the pipeline from Julian day to equation of time.
func At(jd JulianDay) Ephemeris {
	o := NewOrbit(jd.Century())
	p := NewPosition(o)
	return Ephemeris{
		JulianDay:      jd,
		Orbit:          o,
		Position:       p,
		EquationOfTime: EquationOfTime(o, p.ObliquityCorrected),
	}
}
