package solar

import (
	"fmt"
	"time"
)

const (
	// EpochJulianDate is the Julian day of the unix epoch,
	// 1970-01-01T00:00:00Z.
	EpochJulianDate = 2440587.5

	// J2000 is the Julian day of 2000-01-01T12:00:00 TT, the
	// reference epoch of the orbital element series.
	J2000 = 2451545.0

	// DaysPerCentury is the length of a Julian century.
	DaysPerCentury = 36525.0
)

// Instant is a civil calendar timestamp as read off a wall clock
// in the observer's time zone.
type Instant struct {
	Year   int
	Month  time.Month
	Day    int
	Hour   int
	Minute int
	Second int
}

// InstantOf returns the wall clock reading of t in t's own location.
func InstantOf(t time.Time) Instant {
	y, mo, d := t.Date()
	h, mi, s := t.Clock()
	return Instant{Year: y, Month: mo, Day: d, Hour: h, Minute: mi, Second: s}
}

// Midnight returns the start of i's calendar day.
func (i Instant) Midnight() Instant {
	return Instant{Year: i.Year, Month: i.Month, Day: i.Day}
}

// Since returns the time elapsed between local midnight and i.
func (i Instant) Since() Minutes {
	return Minutes(i.Hour*MinutesPerHour+i.Minute) + Minutes(i.Second)/60
}

// Clock returns i as a fraction of its day.
func (i Instant) Clock() DayFraction {
	return i.Since().Day()
}

func (i Instant) String() string {
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d",
		i.Year, i.Month, i.Day, i.Hour, i.Minute, i.Second)
}

// JulianDay is a continuous count of days, and fractions of a day,
// since noon UT on 1 January 4713 BC (proleptic Julian calendar).
type JulianDay float64

// JulianDate returns the Julian day for a wall clock reading taken
// utcOffsetHours east of Greenwich.
//
// Go's time package ignores leap seconds, and so does this: each day
// is exactly SecondsPerDay long.
func JulianDate(i Instant, utcOffsetHours float64) JulianDay {
	// Reading the local wall clock as if it were UTC and then
	// shifting by the offset keeps the date arithmetic independent
	// of any time zone database.
	wall := time.Date(i.Year, i.Month, i.Day, i.Hour, i.Minute, i.Second, 0, time.UTC)
	days := float64(wall.Unix()) / SecondsPerDay
	return JulianDay(days + EpochJulianDate - utcOffsetHours/24)
}

// Century returns the number of Julian centuries since J2000.
//
// The orbital series lose accuracy for dates far outside 1900-2100;
// nothing stops a caller from evaluating them there.
func (jd JulianDay) Century() float64 {
	return (float64(jd) - J2000) / DaysPerCentury
}

// Add returns jd advanced by f.
func (jd JulianDay) Add(f DayFraction) JulianDay {
	return jd + JulianDay(f)
}
