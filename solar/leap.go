package solar

import (
	"sort"
	"time"
)

// leapSeconds is the list of time values to the nanosecond
// after which a leap second was added
//
// Values are taken from
// https://www.ietf.org/timezones/data/leap-seconds.list
var leapSeconds = []time.Time{
	leapSecond(1972, time.June, 30),
	leapSecond(1972, time.December, 31),
	leapSecond(1973, time.December, 31),
	leapSecond(1974, time.December, 31),
	leapSecond(1975, time.December, 31),
	leapSecond(1976, time.December, 31),
	leapSecond(1977, time.December, 31),
	leapSecond(1978, time.December, 31),
	leapSecond(1979, time.December, 31),
	leapSecond(1981, time.June, 30),
	leapSecond(1982, time.June, 30),
	leapSecond(1983, time.June, 30),
	leapSecond(1985, time.June, 30),
	leapSecond(1987, time.December, 31),
	leapSecond(1989, time.December, 31),
	leapSecond(1990, time.December, 31),
	leapSecond(1992, time.June, 30),
	leapSecond(1993, time.June, 30),
	leapSecond(1994, time.June, 30),
	leapSecond(1995, time.December, 31),
	leapSecond(1997, time.June, 30),
	leapSecond(1998, time.December, 31),
	leapSecond(2005, time.December, 31),
	leapSecond(2008, time.December, 31),
	leapSecond(2012, time.June, 30),
	leapSecond(2015, time.June, 30),
	leapSecond(2016, time.December, 31),
}

// leapSecond is shorthand for the final nanosecond before a leap
// second is added.
func leapSecond(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 23, 59, 59, 999999999, time.UTC)
}

const (
	// TAI-UTC when leap seconds began on 1 January 1972.
	initialTAIOffset = 10 * time.Second

	// TT-TAI, fixed by definition.
	ttOffset = 32184 * time.Millisecond
)

// LeapSeconds returns the number of leap seconds inserted between
// 1 January 1972 and t.
//
// Go's time package does not count leap seconds.
// https://github.com/golang/go/issues/15247
func LeapSeconds(t time.Time) int {
	return sort.Search(len(leapSeconds), func(i int) bool {
		return t.Before(leapSeconds[i])
	})
}

// DynamicalOffset returns TT-UTC at t. Instants before 1972 use the
// 1972 value and later ones assume no leap seconds beyond the table.
func DynamicalOffset(t time.Time) time.Duration {
	return ttOffset + initialTAIOffset + time.Duration(LeapSeconds(t))*time.Second
}
