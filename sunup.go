// Package sunup computes sunrise, solar noon, sunset and the sun's
// position in the sky for an observer on a given civil date.
//
// The times follow the NOAA solar calculator series. They are good to
// a minute or two between 1900 and 2100 at latitudes where the sun
// actually rises and sets.
package sunup

import (
	"fmt"
	"math"
	"time"

	"cloudeng.io/datetime"
	"cloudeng.io/errors"
	"github.com/soniakeys/unit"
	"github.com/subtlepseudonym/sunup/solar"
)

// Event names a daily sun event.
type Event = solar.Event

const (
	Sunrise   = solar.Sunrise
	SolarNoon = solar.SolarNoon
	Sunset    = solar.Sunset
)

// ParseEvent is the inverse of Event.String.
func ParseEvent(s string) (Event, error) {
	return solar.ParseEvent(s)
}

// Daylight says whether the sun crosses the horizon on a day.
type Daylight = solar.Daylight

const (
	Transitions = solar.Transitions
	PolarDay    = solar.PolarDay
	PolarNight  = solar.PolarNight
)

// dstShift is the presentation shift applied to clock times when
// daylight saving time is in effect.
const dstShift solar.DayFraction = 1.0 / 24

// Observer is a place on earth and its civil clock.
type Observer struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`     // degrees, north positive
	Longitude float64 `json:"longitude" yaml:"longitude"`   // degrees, east positive
	UTCOffset float64 `json:"utc_offset" yaml:"utc_offset"` // standard time, hours east of Greenwich
	DST       bool    `json:"dst" yaml:"dst"`               // clocks run one hour ahead of standard time
}

// Validate reports every field outside its valid range.
func (o Observer) Validate() error {
	var errs errors.M
	errs.Append(
		checkRange("latitude", o.Latitude, MinLatitude, MaxLatitude),
		checkRange("longitude", o.Longitude, MinLongitude, MaxLongitude),
		checkRange("utc offset", o.UTCOffset, MinUTCOffset, MaxUTCOffset),
	)
	return errs.Err()
}

func (o Observer) site() solar.Site {
	return solar.Site{
		Latitude:  unit.AngleFromDeg(o.Latitude),
		Longitude: unit.AngleFromDeg(o.Longitude),
		UTCOffset: o.UTCOffset,
	}
}

// Zone returns the observer's standard time zone.
func (o Observer) Zone() *time.Location {
	return time.FixedZone(o.zoneName(), int(o.UTCOffset*3600))
}

func (o Observer) zoneName() string {
	sign, off := '+', o.UTCOffset
	if off < 0 {
		sign, off = '-', -off
	}
	h := int(off)
	m := int(math.Round((off - float64(h)) * 60))
	if m == 0 {
		return fmt.Sprintf("UTC%c%d", sign, h)
	}
	return fmt.Sprintf("UTC%c%d:%02d", sign, h, m)
}

// Now returns the observer's current wall clock, one hour ahead of
// standard time when the observer keeps daylight saving time.
func (o Observer) Now() time.Time {
	now := time.Now().In(o.Zone())
	if o.DST {
		now = now.Add(time.Hour)
	}
	return now
}

func (o Observer) String() string {
	return fmt.Sprintf("%.4f,%.4f %s", o.Latitude, o.Longitude, o.zoneName())
}

// Options select how sun times are computed and presented.
type Options struct {
	// ApplyDST shifts the reported clock times one hour later. It is
	// implied when the observer's DST flag is set.
	ApplyDST bool
	// IterativeRefine re-evaluates the ephemeris at each estimated
	// event until the estimate settles, rather than once at noon.
	IterativeRefine bool
}

// Transition is the clock time of a sunrise or sunset, or the reason
// there is none.
type Transition struct {
	Daylight Daylight
	Time     datetime.TimeOfDay // zero unless Daylight is Transitions
}

// OK reports whether the transition happens.
func (t Transition) OK() bool {
	return t.Daylight == Transitions
}

func (t Transition) String() string {
	if !t.OK() {
		return t.Daylight.String()
	}
	return t.Time.String()
}

// Times are the sun times for one observer and civil day.
type Times struct {
	Observer Observer
	Date     time.Time // local midnight in the observer's standard zone

	Sunrise          Transition
	SolarNoon        datetime.TimeOfDay
	Sunset           Transition
	DayLengthMinutes float64

	// DST reports whether the clock times above include the daylight
	// saving shift.
	DST bool

	// Horizon holds the unshifted results as fractions of the day.
	Horizon solar.Horizon

	// Warnings lists events whose iterative refinement did not settle.
	Warnings []*ConvergenceWarning
}

// Daylight reports whether the sun rises and sets on the day.
func (t Times) Daylight() Daylight {
	return t.Horizon.Daylight
}

// At returns the instant of event e. It returns ErrNoTransition for a
// sunrise or sunset on a polar day or night.
func (t Times) At(e Event) (time.Time, error) {
	var f solar.DayFraction
	switch e {
	case Sunrise:
		f = t.Horizon.Sunrise
	case SolarNoon:
		f = t.Horizon.SolarNoon
	case Sunset:
		f = t.Horizon.Sunset
	default:
		return time.Time{}, fmt.Errorf("unknown event %v", e)
	}
	if e != SolarNoon && t.Horizon.Daylight != Transitions {
		return time.Time{}, fmt.Errorf("%s on %s: %w (%s)", e, t.Date.Format(time.DateOnly), ErrNoTransition, t.Horizon.Daylight)
	}
	return t.Date.Add(f.Duration()), nil
}

// ComputeSunriseSunset computes the sun times for the calendar day of
// date, read as a wall clock in the observer's civil time. The time of
// day in date is ignored.
func ComputeSunriseSunset(obs Observer, date time.Time, opts Options) (Times, error) {
	if err := obs.Validate(); err != nil {
		return Times{}, fmt.Errorf("observer %s: %w", obs, err)
	}
	day := solar.InstantOf(date).Midnight()
	h, refinements := solar.Solver{
		Site:      obs.site(),
		Iterative: opts.IterativeRefine,
	}.Solve(day)

	t := Times{
		Observer:         obs,
		Date:             time.Date(day.Year, day.Month, day.Day, 0, 0, 0, 0, obs.Zone()),
		DayLengthMinutes: float64(h.DayLength),
		DST:              opts.ApplyDST || obs.DST,
		Horizon:          h,
		Warnings:         warnings(refinements),
	}
	var shift solar.DayFraction
	if t.DST {
		shift = dstShift
	}
	t.SolarNoon = (h.SolarNoon + shift).TimeOfDay()
	t.Sunrise = Transition{Daylight: h.Daylight}
	t.Sunset = Transition{Daylight: h.Daylight}
	if h.Daylight == Transitions {
		t.Sunrise.Time = (h.Sunrise + shift).TimeOfDay()
		t.Sunset.Time = (h.Sunset + shift).TimeOfDay()
	}
	return t, nil
}

// Position is the sun's place in an observer's sky. Angles are in
// degrees.
type Position struct {
	Zenith             float64
	Elevation          float64
	CorrectedElevation float64 // Elevation plus atmospheric refraction
	Azimuth            float64 // clockwise from north
	HourAngle          float64
	Declination        float64
	RightAscension     float64 // in [0, 360)
	EquationOfTime     float64 // minutes
}

// ComputeInstantaneousPosition computes the sun's position at the
// wall clock time at in the observer's civil time. When the observer
// keeps daylight saving time, at is read as a daylight clock.
func ComputeInstantaneousPosition(obs Observer, at time.Time) (Position, error) {
	if err := obs.Validate(); err != nil {
		return Position{}, fmt.Errorf("observer %s: %w", obs, err)
	}
	site := obs.site()
	if obs.DST {
		site.UTCOffset++
	}
	sky, e := solar.NewSky(site, solar.InstantOf(at))
	return Position{
		Zenith:             sky.Zenith.Deg(),
		Elevation:          sky.Elevation.Deg(),
		CorrectedElevation: sky.CorrectedElevation.Deg(),
		Azimuth:            sky.Azimuth.Deg(),
		HourAngle:          sky.HourAngle.Deg(),
		Declination:        e.Position.Declination.Deg(),
		RightAscension:     e.Position.RightAscension.RA().Deg(),
		EquationOfTime:     float64(e.EquationOfTime),
	}, nil
}
