package solar

import (
	"math"

	"github.com/soniakeys/unit"
)

// Sky is the sun's position in the observer's sky at one instant.
type Sky struct {
	TrueSolarTime      Minutes
	HourAngle          unit.Angle // in [-180°, 180°), negative before noon
	Zenith             unit.Angle
	Elevation          unit.Angle // geometric, 90° - Zenith
	Refraction         unit.Angle
	CorrectedElevation unit.Angle // Elevation + Refraction
	Azimuth            unit.Angle // clockwise from north, in [0°, 360°)
}

// TrueSolarTime returns the apparent solar time at the site for a
// clock reading of since minutes past local midnight, reduced into
// a single day.
func TrueSolarTime(site Site, since, eot Minutes) Minutes {
	m := since + eot + HourAngleMinutes(site.Longitude) - Minutes(site.UTCOffset*MinutesPerHour)
	m = Minutes(math.Mod(float64(m), MinutesPerDay))
	if m < 0 {
		m += MinutesPerDay
	}
	return m
}

// SolarHourAngle folds a true solar time into an hour angle in
// [-180°, 180°).
func SolarHourAngle(tst Minutes) unit.Angle {
	d := float64(tst) / MinutesPerDegree
	if d < 0 {
		return deg(d + 180)
	}
	return deg(d - 180)
}

// Refraction returns the apparent lift of a body seen at geometric
// elevation e. Above 85° it is ignored; the remaining bands use the
// NOAA approximations, which agree to a few arcseconds where they meet.
func Refraction(e unit.Angle) unit.Angle {
	d := e.Deg()
	if d <= -0.575 {
		// Below the horizon band the formula yields degrees directly.
		return deg(-20.772 / e.Tan() / 3600)
	}
	return unit.AngleFromSec(refractionArcsec(d, e.Tan()))
}

func refractionArcsec(d, tanE float64) float64 {
	switch {
	case d > 85:
		return 0
	case d > 5:
		return 58.1/tanE - 0.07/math.Pow(tanE, 3) + 0.000086/math.Pow(tanE, 5)
	}
	return 1735 + d*(-518.2+d*(103.4+d*(-12.79+d*0.711)))
}

// Azimuth returns the sun's compass bearing from its hour angle and
// zenith distance.
func Azimuth(latitude, declination, hourAngle, zenith unit.Angle) unit.Angle {
	den := latitude.Cos() * zenith.Sin()
	if math.Abs(den) < 1e-12 {
		// Sun at the zenith, or observer at a pole: any bearing is
		// as good as another; report due south/north consistently.
		if latitude.Deg() < 0 {
			return 0
		}
		return deg(180)
	}
	a := math.Acos(clamp((latitude.Sin()*zenith.Cos() - declination.Sin()) / den))
	if hourAngle > 0 {
		return normalize360(unit.Angle(a) + deg(180))
	}
	return normalize360(deg(540) - unit.Angle(a))
}

// NewSky computes the sun's position at a wall clock instant.
func NewSky(site Site, at Instant) (Sky, Ephemeris) {
	e := At(JulianDate(at, site.UTCOffset))
	decl := e.Position.Declination

	var s Sky
	s.TrueSolarTime = TrueSolarTime(site, at.Since(), e.EquationOfTime)
	s.HourAngle = SolarHourAngle(s.TrueSolarTime)
	cosZ := site.Latitude.Sin()*decl.Sin() + site.Latitude.Cos()*decl.Cos()*s.HourAngle.Cos()
	s.Zenith = unit.Angle(math.Acos(clamp(cosZ)))
	s.Elevation = deg(90) - s.Zenith
	s.Refraction = Refraction(s.Elevation)
	s.CorrectedElevation = s.Elevation + s.Refraction
	s.Azimuth = Azimuth(site.Latitude, decl, s.HourAngle, s.Zenith)
	return s, e
}
