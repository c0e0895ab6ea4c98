package solar

import (
	"math"
	"time"

	"cloudeng.io/datetime"
	"github.com/soniakeys/unit"
)

const (
	MinutesPerDay    = 1440
	SecondsPerDay    = 86400 // not including leap seconds
	MinutesPerHour   = 60
	MinutesPerDegree = 4 // the earth turns one degree every four minutes
)

// Minutes is a span of clock time expressed in minutes.
type Minutes float64

// DayFraction is a position within, or a span of, a civil day
// expressed as a fraction of 24 hours. Values outside [0, 1) are
// legal and refer to the previous or following day.
type DayFraction float64

// Day converts m to a fraction of a day.
func (m Minutes) Day() DayFraction {
	return DayFraction(m / MinutesPerDay)
}

// Duration converts m to a time.Duration, rounded to the nanosecond.
func (m Minutes) Duration() time.Duration {
	return time.Duration(math.Round(float64(m) * float64(time.Minute)))
}

// Minutes converts f to minutes.
func (f DayFraction) Minutes() Minutes {
	return Minutes(f * MinutesPerDay)
}

// Duration converts f to a time.Duration rounded to the whole second.
func (f DayFraction) Duration() time.Duration {
	return time.Duration(math.Round(float64(f)*SecondsPerDay)) * time.Second
}

// Wrap reduces f into [0, 1).
func (f DayFraction) Wrap() DayFraction {
	w := math.Mod(float64(f), 1)
	if w < 0 {
		w += 1
	}
	return DayFraction(w)
}

// TimeOfDay returns the civil clock reading for f, rounded to the
// whole second and wrapped into 00:00:00 - 23:59:59.
func (f DayFraction) TimeOfDay() datetime.TimeOfDay {
	secs := int(math.Round(float64(f) * SecondsPerDay))
	secs %= SecondsPerDay
	if secs < 0 {
		secs += SecondsPerDay
	}
	return datetime.NewTimeOfDay(secs/3600, secs/60%60, secs%60)
}

// HourAngleMinutes converts an hour angle to the clock time the sun
// needs to sweep through it.
func HourAngleMinutes(h unit.Angle) Minutes {
	return Minutes(h.Deg() * MinutesPerDegree)
}

// deg is shorthand for unit.AngleFromDeg.
func deg(d float64) unit.Angle {
	return unit.AngleFromDeg(d)
}

// normalize360 reduces an angle into [0°, 360°).
func normalize360(a unit.Angle) unit.Angle {
	d := math.Mod(a.Deg(), 360)
	if d < 0 {
		d += 360
	}
	return deg(d)
}

// clamp guards acos/asin arguments against rounding noise.
func clamp(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}
