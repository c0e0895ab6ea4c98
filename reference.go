package sunup

import (
	"fmt"
	"time"

	"github.com/nathan-osman/go-sunrise"
)

// ReferenceTimes returns sunrise and sunset for the observer's calendar
// day of date from an independent implementation of the sunrise
// equation. Both times are zero when the sun does not rise or set.
// The results are in the observer's standard zone.
func ReferenceTimes(obs Observer, date time.Time) (rise, set time.Time, err error) {
	if err := obs.Validate(); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("observer %s: %w", obs, err)
	}
	rise, set = sunrise.SunriseSunset(obs.Latitude, obs.Longitude, date.Year(), date.Month(), date.Day())
	if rise.IsZero() || set.IsZero() {
		return time.Time{}, time.Time{}, nil
	}
	zone := obs.Zone()
	return rise.In(zone), set.In(zone), nil
}

// Drift is the difference between our times and the reference times.
type Drift struct {
	Sunrise, Sunset time.Duration
}

// Compare reports how far t strays from the reference sunrise and
// sunset for the same day. It returns ErrNoTransition if either side
// has no sunrise or sunset.
func Compare(t Times) (Drift, error) {
	rise, set, err := ReferenceTimes(t.Observer, t.Date)
	if err != nil {
		return Drift{}, err
	}
	if rise.IsZero() {
		return Drift{}, fmt.Errorf("reference on %s: %w", t.Date.Format(time.DateOnly), ErrNoTransition)
	}
	ourRise, err := t.At(Sunrise)
	if err != nil {
		return Drift{}, err
	}
	ourSet, err := t.At(Sunset)
	if err != nil {
		return Drift{}, err
	}
	return Drift{Sunrise: ourRise.Sub(rise), Sunset: ourSet.Sub(set)}, nil
}
