package sunup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareAgainstReference(t *testing.T) {
	observers := []Observer{
		boulder,
		{Latitude: 51.48, Longitude: 0, UTCOffset: 0},
		{Latitude: -33.87, Longitude: 151.21, UTCOffset: 10},
		{Latitude: 1.35, Longitude: 103.82, UTCOffset: 8},
	}
	for _, obs := range observers {
		for month := time.January; month <= time.December; month += 2 {
			date := time.Date(2024, month, 10, 0, 0, 0, 0, time.UTC)
			for _, iterative := range []bool{false, true} {
				times, err := ComputeSunriseSunset(obs, date, Options{IterativeRefine: iterative})
				require.NoError(t, err)
				drift, err := Compare(times)
				require.NoError(t, err)
				assert.InDelta(t, 0, drift.Sunrise.Minutes(), 3, "%s %s", obs, date.Format(time.DateOnly))
				assert.InDelta(t, 0, drift.Sunset.Minutes(), 3, "%s %s", obs, date.Format(time.DateOnly))
			}
		}
	}
}

func TestReferencePolar(t *testing.T) {
	obs := Observer{Latitude: 89, Longitude: 0}
	date := time.Date(2024, time.June, 21, 0, 0, 0, 0, time.UTC)
	rise, set, err := ReferenceTimes(obs, date)
	require.NoError(t, err)
	assert.True(t, rise.IsZero())
	assert.True(t, set.IsZero())

	times, err := ComputeSunriseSunset(obs, date, Options{})
	require.NoError(t, err)
	_, err = Compare(times)
	assert.ErrorIs(t, err, ErrNoTransition)
}

func TestReferenceTimesZone(t *testing.T) {
	rise, _, err := ReferenceTimes(boulder, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	_, off := rise.Zone()
	assert.Equal(t, -7*3600, off)
	assert.Equal(t, 1, rise.Day())

	_, _, err = ReferenceTimes(Observer{UTCOffset: 20}, time.Now())
	assert.ErrorIs(t, err, ErrInputDomain)
}
