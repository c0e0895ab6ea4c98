package solar

import (
	"fmt"
	"math"

	"github.com/soniakeys/unit"
)

// HorizonZenith is the zenith distance of the sun's centre when its
// upper limb touches a sea level horizon: 90° plus 34' of standard
// refraction plus the 16' semi-diameter of the solar disk.
const HorizonZenith = 90.833

const (
	// DefaultTolerance is the agreement required between consecutive
	// estimates before the iterative solver stops.
	DefaultTolerance DayFraction = 1.0 / SecondsPerDay

	// MaxIterations bounds the iterative solver.
	MaxIterations = 5
)

// Site is an observer's position and civil time zone.
type Site struct {
	Latitude  unit.Angle // north positive
	Longitude unit.Angle // east positive
	UTCOffset float64    // hours east of Greenwich
}

// Daylight classifies a day by whether the sun crosses the horizon.
type Daylight int

const (
	// Transitions means the sun both rises and sets.
	Transitions Daylight = iota
	// PolarDay means the sun stays above the horizon all day.
	PolarDay
	// PolarNight means the sun stays below the horizon all day.
	PolarNight
)

func (d Daylight) String() string {
	switch d {
	case Transitions:
		return "transitions"
	case PolarDay:
		return "polar day"
	case PolarNight:
		return "polar night"
	}
	return fmt.Sprintf("Daylight(%d)", int(d))
}

// Event names a daily sun event.
type Event int

const (
	Sunrise Event = iota
	SolarNoon
	Sunset
)

func (e Event) String() string {
	switch e {
	case Sunrise:
		return "sunrise"
	case SolarNoon:
		return "noon"
	case Sunset:
		return "sunset"
	}
	return fmt.Sprintf("Event(%d)", int(e))
}

// ParseEvent is the inverse of Event.String.
func ParseEvent(s string) (Event, error) {
	for _, e := range []Event{Sunrise, SolarNoon, Sunset} {
		if s == e.String() {
			return e, nil
		}
	}
	return 0, fmt.Errorf("unknown sun event %q", s)
}

// SunriseHourAngle returns the hour angle at which the sun's centre
// reaches HorizonZenith. When the sun never reaches it the angle is
// zero and the Daylight value says which way it missed.
func SunriseHourAngle(latitude, declination unit.Angle) (unit.Angle, Daylight) {
	cosH := deg(HorizonZenith).Cos()/(latitude.Cos()*declination.Cos()) -
		latitude.Tan()*declination.Tan()
	switch {
	case math.IsNaN(cosH):
		// cos(latitude) underflowed to zero at a pole.
		if latitude.Sin()*declination.Sin() > 0 {
			return 0, PolarDay
		}
		return 0, PolarNight
	case cosH > 1:
		return 0, PolarNight
	case cosH < -1:
		return 0, PolarDay
	}
	return unit.Angle(math.Acos(cosH)), Transitions
}

// NoonFraction returns the civil clock time of local solar noon.
func NoonFraction(site Site, eot Minutes) DayFraction {
	m := 720 - HourAngleMinutes(site.Longitude) - eot + Minutes(site.UTCOffset*MinutesPerHour)
	return m.Day()
}

// Horizon holds the day's horizon crossings as fractions of the
// local civil day.
type Horizon struct {
	Daylight  Daylight
	SolarNoon DayFraction
	HourAngle unit.Angle // at the noon evaluation; zero unless Daylight is Transitions
	Sunrise   DayFraction
	Sunset    DayFraction
	DayLength Minutes
}

// NewHorizon computes the day's crossings from a single ephemeris
// evaluation.
func NewHorizon(site Site, e Ephemeris) Horizon {
	h := Horizon{SolarNoon: NoonFraction(site, e.EquationOfTime)}
	h.HourAngle, h.Daylight = SunriseHourAngle(site.Latitude, e.Position.Declination)
	switch h.Daylight {
	case PolarDay:
		h.DayLength = MinutesPerDay
		return h
	case PolarNight:
		return h
	}
	half := HourAngleMinutes(h.HourAngle).Day()
	h.Sunrise = h.SolarNoon - half
	h.Sunset = h.SolarNoon + half
	h.DayLength = (h.Sunset - h.Sunrise).Minutes()
	return h
}

// Refinement reports how the iterative solver fared for one event.
type Refinement struct {
	Event      Event
	Iterations int
	Converged  bool
	Delta      DayFraction // change made by the last successful step

	// Blocked is the daylight found at a candidate instant that had no
	// transition, which ends the refinement early. It is Transitions
	// when every step succeeded.
	Blocked Daylight
}

// Solver computes a day's horizon crossings for a site.
//
// In single-shot mode the declination and equation of time are
// evaluated once, at 12:00 local civil time. In iterative mode each
// event is refined by re-evaluating them at the previous estimate of
// that event until consecutive estimates agree within Tolerance.
type Solver struct {
	Site          Site
	Iterative     bool
	Tolerance     DayFraction // DefaultTolerance when zero
	MaxIterations int         // MaxIterations when zero or larger
}

// Solve computes the crossings for the calendar day of date. The
// time of day in date is ignored.
func (s Solver) Solve(date Instant) (Horizon, []Refinement) {
	midnight := JulianDate(date.Midnight(), s.Site.UTCOffset)
	h := NewHorizon(s.Site, At(midnight.Add(0.5)))
	if !s.Iterative {
		return h, nil
	}

	tol, limit := s.Tolerance, s.MaxIterations
	if tol <= 0 {
		tol = DefaultTolerance
	}
	if limit <= 0 || limit > MaxIterations {
		limit = MaxIterations
	}
	at := func(x DayFraction) Horizon {
		return NewHorizon(s.Site, At(midnight.Add(x)))
	}

	var refinements []Refinement
	refine := func(ev Event, x0 DayFraction, pick func(Horizon) DayFraction) DayFraction {
		var delta DayFraction
		blocked := Transitions
		x, n, ok := Iterate(x0, func(x DayFraction) (DayFraction, bool) {
			next := at(x)
			if ev != SolarNoon && next.Daylight != Transitions {
				blocked = next.Daylight
				return x, false
			}
			v := pick(next)
			delta = v - x
			return v, true
		}, tol, limit)
		refinements = append(refinements, Refinement{Event: ev, Iterations: n, Converged: ok, Delta: delta, Blocked: blocked})
		return x
	}

	h.SolarNoon = refine(SolarNoon, h.SolarNoon, func(n Horizon) DayFraction { return n.SolarNoon })
	if h.Daylight != Transitions {
		return h, refinements
	}
	h.Sunrise = refine(Sunrise, h.Sunrise, func(n Horizon) DayFraction { return n.Sunrise })
	h.Sunset = refine(Sunset, h.Sunset, func(n Horizon) DayFraction { return n.Sunset })
	h.DayLength = (h.Sunset - h.Sunrise).Minutes()
	return h, refinements
}
