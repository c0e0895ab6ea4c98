package sunup

import (
	"math"
	"testing"
	"time"

	"cloudeng.io/datetime"
	"cloudeng.io/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/subtlepseudonym/sunup/solar"
)

var boulder = Observer{Latitude: 40, Longitude: -105, UTCOffset: -7}

func clock(tod datetime.TimeOfDay) float64 {
	return tod.Duration().Minutes()
}

func TestReferenceScenario(t *testing.T) {
	date := time.Date(2010, time.June, 21, 0, 0, 0, 0, time.UTC)
	for _, iterative := range []bool{false, true} {
		times, err := ComputeSunriseSunset(boulder, date, Options{ApplyDST: true, IterativeRefine: iterative})
		require.NoError(t, err)
		require.True(t, times.Sunrise.OK())
		require.True(t, times.Sunset.OK())
		assert.Empty(t, times.Warnings)

		assert.InDelta(t, 5*60+32, clock(times.Sunrise.Time), 2)
		assert.InDelta(t, 20*60+32, clock(times.Sunset.Time), 2)
		assert.InDelta(t, 13*60+2, clock(times.SolarNoon), 1)
	}
}

func TestDSTShift(t *testing.T) {
	date := time.Date(2021, time.July, 4, 0, 0, 0, 0, time.UTC)
	standard, err := ComputeSunriseSunset(boulder, date, Options{})
	require.NoError(t, err)
	shifted, err := ComputeSunriseSunset(boulder, date, Options{ApplyDST: true})
	require.NoError(t, err)

	assert.False(t, standard.DST)
	assert.True(t, shifted.DST)
	assert.Equal(t, time.Hour, shifted.Sunrise.Time.Duration()-standard.Sunrise.Time.Duration())
	assert.Equal(t, time.Hour, shifted.Sunset.Time.Duration()-standard.Sunset.Time.Duration())
	assert.Equal(t, time.Hour, shifted.SolarNoon.Duration()-standard.SolarNoon.Duration())
	assert.Equal(t, standard.DayLengthMinutes, shifted.DayLengthMinutes)
	assert.Equal(t, standard.Horizon, shifted.Horizon)

	// The observer's own flag implies the shift.
	dst := boulder
	dst.DST = true
	flagged, err := ComputeSunriseSunset(dst, date, Options{})
	require.NoError(t, err)
	assert.Equal(t, shifted.Sunrise, flagged.Sunrise)

	// The shift is presentation only; the instants do not move.
	a, err := standard.At(Sunrise)
	require.NoError(t, err)
	b, err := shifted.At(Sunrise)
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
}

func TestOrdering(t *testing.T) {
	observers := []Observer{
		boulder,
		{Latitude: 51.48, Longitude: 0, UTCOffset: 0},
		{Latitude: -33.87, Longitude: 151.21, UTCOffset: 10},
		{Latitude: 35.68, Longitude: 139.69, UTCOffset: 9},
		{Latitude: -0.18, Longitude: -78.47, UTCOffset: -5},
	}
	for _, obs := range observers {
		for month := time.January; month <= time.December; month++ {
			date := time.Date(2022, month, 15, 0, 0, 0, 0, time.UTC)
			times, err := ComputeSunriseSunset(obs, date, Options{IterativeRefine: true})
			require.NoError(t, err)
			require.Equal(t, Transitions, times.Daylight())

			rise, err := times.At(Sunrise)
			require.NoError(t, err)
			noon, err := times.At(SolarNoon)
			require.NoError(t, err)
			set, err := times.At(Sunset)
			require.NoError(t, err)

			assert.True(t, rise.Before(noon), "%s %s", obs, date)
			assert.True(t, noon.Before(set), "%s %s", obs, date)
			assert.InDelta(t, set.Sub(rise).Minutes(), times.DayLengthMinutes, 2.0/60)
		}
	}
}

func TestEquatorEquinox(t *testing.T) {
	equinox := Seasons(2022)[MarchEquinox]
	times, err := ComputeSunriseSunset(Observer{}, equinox, Options{})
	require.NoError(t, err)

	noon := clock(times.SolarNoon)
	assert.InDelta(t, noon-clock(times.Sunrise.Time), clock(times.Sunset.Time)-noon, 3.0/60)
	assert.InDelta(t, 12*60+6.7, times.DayLengthMinutes, 1)
}

func TestPolar(t *testing.T) {
	obs := Observer{Latitude: 89, Longitude: 0}
	for _, iterative := range []bool{false, true} {
		opts := Options{IterativeRefine: iterative}

		summer, err := ComputeSunriseSunset(obs, time.Date(2022, time.June, 21, 0, 0, 0, 0, time.UTC), opts)
		require.NoError(t, err)
		assert.Equal(t, PolarDay, summer.Sunrise.Daylight)
		assert.Equal(t, PolarDay, summer.Sunset.Daylight)
		assert.False(t, summer.Sunrise.OK())
		assert.Equal(t, "polar day", summer.Sunrise.String())
		assert.Equal(t, 1440.0, summer.DayLengthMinutes)

		_, err = summer.At(Sunrise)
		assert.ErrorIs(t, err, ErrNoTransition)
		_, err = summer.At(SolarNoon)
		assert.NoError(t, err)

		winter, err := ComputeSunriseSunset(obs, time.Date(2022, time.December, 21, 0, 0, 0, 0, time.UTC), opts)
		require.NoError(t, err)
		assert.Equal(t, PolarNight, winter.Sunset.Daylight)
		assert.Zero(t, winter.DayLengthMinutes)
		_, err = winter.At(Sunset)
		assert.ErrorIs(t, err, ErrNoTransition)
	}
}

func TestInputDomain(t *testing.T) {
	tests := []struct {
		name   string
		obs    Observer
		fields int
	}{
		{"latitude", Observer{Latitude: 90.5}, 1},
		{"longitude", Observer{Longitude: -181}, 1},
		{"offset", Observer{UTCOffset: 14.5}, 1},
		{"nan", Observer{Latitude: math.NaN()}, 1},
		{"everything", Observer{Latitude: -91, Longitude: 200, UTCOffset: -13}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeSunriseSunset(tt.obs, time.Now(), Options{})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInputDomain)

			var m *errors.M
			require.True(t, errors.As(err, &m))
			assert.Len(t, m.Unwrap(), tt.fields)

			var de *DomainError
			require.True(t, errors.As(err, &de))
			assert.NotEmpty(t, de.Field)

			_, err = ComputeInstantaneousPosition(tt.obs, time.Now())
			assert.ErrorIs(t, err, ErrInputDomain)
		})
	}

	for _, obs := range []Observer{
		{Latitude: 90, Longitude: 180, UTCOffset: 14},
		{Latitude: -90, Longitude: -180, UTCOffset: -12},
	} {
		assert.NoError(t, obs.Validate())
	}
}

func TestIdempotent(t *testing.T) {
	date := time.Date(2016, time.October, 9, 17, 45, 0, 0, time.UTC)
	opts := Options{IterativeRefine: true}
	a, err := ComputeSunriseSunset(boulder, date, opts)
	require.NoError(t, err)
	b, err := ComputeSunriseSunset(boulder, date, opts)
	require.NoError(t, err)
	assert.Equal(t, a.Horizon, b.Horizon)
	assert.Equal(t, a.Sunrise, b.Sunrise)
	assert.Equal(t, a.Sunset, b.Sunset)

	p, err := ComputeInstantaneousPosition(boulder, date)
	require.NoError(t, err)
	q, err := ComputeInstantaneousPosition(boulder, date)
	require.NoError(t, err)
	assert.Equal(t, p, q)
}

func TestTimeOfDayIgnored(t *testing.T) {
	morning, err := ComputeSunriseSunset(boulder, time.Date(2022, time.March, 3, 1, 0, 0, 0, time.UTC), Options{})
	require.NoError(t, err)
	evening, err := ComputeSunriseSunset(boulder, time.Date(2022, time.March, 3, 23, 59, 59, 0, time.UTC), Options{})
	require.NoError(t, err)
	assert.Equal(t, morning.Horizon, evening.Horizon)
}

func TestInstantaneousPosition(t *testing.T) {
	at := time.Date(2010, time.June, 21, 12, 2, 0, 0, time.UTC)
	p, err := ComputeInstantaneousPosition(boulder, at)
	require.NoError(t, err)

	assert.InDelta(t, 73.44, p.Elevation, 0.05)
	assert.InDelta(t, 180, p.Azimuth, 2)
	assert.InDelta(t, 90, p.Zenith+p.Elevation, 1e-9)
	assert.Greater(t, p.CorrectedElevation, p.Elevation)
	assert.InDelta(t, 23.44, p.Declination, 0.01)
	assert.InDelta(t, 90, p.RightAscension, 0.5)

	// A daylight clock reads one hour later for the same instant.
	dst := boulder
	dst.DST = true
	q, err := ComputeInstantaneousPosition(dst, at.Add(time.Hour))
	require.NoError(t, err)
	assert.InDelta(t, p.Elevation, q.Elevation, 1e-9)
	assert.InDelta(t, p.Azimuth, q.Azimuth, 1e-9)
}

func TestSunriseRoundTrip(t *testing.T) {
	for _, date := range []time.Time{
		time.Date(2010, time.June, 21, 0, 0, 0, 0, time.UTC),
		time.Date(2023, time.February, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2023, time.October, 30, 0, 0, 0, 0, time.UTC),
	} {
		times, err := ComputeSunriseSunset(boulder, date, Options{IterativeRefine: true})
		require.NoError(t, err)

		for _, e := range []Event{Sunrise, Sunset} {
			at, err := times.At(e)
			require.NoError(t, err)
			p, err := ComputeInstantaneousPosition(boulder, at.In(boulder.Zone()))
			require.NoError(t, err)

			// The horizon threshold plus the refraction it implies.
			assert.InDelta(t, -0.833+0.397, p.CorrectedElevation, 0.1, "%s %s", e, date)
		}
	}
}

func TestConvergenceWarning(t *testing.T) {
	w := &ConvergenceWarning{Event: Sunset, Iterations: 5, Delta: 3 * time.Second}
	assert.Equal(t, "sunset did not converge after 5 iterations (last step 3s)", w.Error())

	w = &ConvergenceWarning{Event: Sunset, Blocked: PolarDay}
	assert.Equal(t, "sunset refinement stopped after 0 iterations: polar day at the next estimate", w.Error())
}

func TestWarningsFromRefinements(t *testing.T) {
	refinements := []solar.Refinement{
		{Event: SolarNoon, Iterations: 2, Converged: true, Delta: 1e-9},
		{Event: Sunrise, Iterations: 5, Delta: 3.0 / solar.SecondsPerDay},
		{Event: Sunset, Blocked: PolarDay},
	}
	ws := warnings(refinements)
	require.Len(t, ws, 2)

	assert.Equal(t, Sunrise, ws[0].Event)
	assert.Equal(t, 5, ws[0].Iterations)
	assert.Equal(t, 3*time.Second, ws[0].Delta)
	assert.Equal(t, Transitions, ws[0].Blocked)

	assert.Equal(t, Sunset, ws[1].Event)
	assert.Zero(t, ws[1].Iterations)
	assert.Zero(t, ws[1].Delta)
	assert.Equal(t, PolarDay, ws[1].Blocked)

	assert.Empty(t, warnings(nil))
}

func TestWarningsOnPolarBoundary(t *testing.T) {
	// Scan latitudes across the start of polar day until the sunset
	// refinement lands on a day with no transition.
	date := time.Date(2021, time.May, 10, 0, 0, 0, 0, time.UTC)
	for lat := 60.0; lat < 75; lat += 0.005 {
		obs := Observer{Latitude: lat}
		times, err := ComputeSunriseSunset(obs, date, Options{IterativeRefine: true})
		require.NoError(t, err)
		if times.Daylight() != Transitions || len(times.Warnings) == 0 {
			continue
		}
		w := times.Warnings[0]
		assert.Equal(t, PolarDay, w.Blocked, "latitude %v", lat)
		assert.Contains(t, w.Error(), "polar day")
		assert.True(t, times.Sunset.OK())
		return
	}
	t.Fatal("no latitude produced a warning")
}

func TestObserverZone(t *testing.T) {
	assert.Equal(t, "UTC-7", boulder.Zone().String())
	assert.Equal(t, "UTC+5:30", Observer{UTCOffset: 5.5}.Zone().String())
	assert.Equal(t, "UTC-3:30", Observer{UTCOffset: -3.5}.Zone().String())
	assert.Equal(t, "UTC-0:30", Observer{UTCOffset: -0.5}.Zone().String())
	assert.Equal(t, "UTC+0", Observer{}.Zone().String())

	_, off := time.Date(2022, 1, 1, 0, 0, 0, 0, Observer{UTCOffset: 5.75}.Zone()).Zone()
	assert.Equal(t, 5*3600+45*60, off)
}

func TestObserverNow(t *testing.T) {
	standard := boulder.Now()
	assert.Equal(t, "UTC-7", standard.Location().String())

	dst := boulder
	dst.DST = true
	daylight := dst.Now()
	assert.InDelta(t, time.Hour, daylight.Sub(standard), float64(time.Second))
}
