package solar

import (
	"math"
	"testing"
	"time"

	"github.com/soniakeys/unit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefraction(t *testing.T) {
	tests := []struct {
		name      string
		elevation float64
		arcsec    float64
		delta     float64
	}{
		{"overhead", 90, 0, 0},
		{"above cutoff", 86, 0, 0},
		{"high", 45, 58.03, 0.01},
		{"low", 10, 317.24, 0.01},
		{"horizon", 0, 1735, 1e-9},
		{"below horizon", -0.833, 1428.65, 0.01},
		{"deep below horizon", -5, 237.43, 0.01},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Refraction(unit.AngleFromDeg(tt.elevation))
			assert.InDelta(t, tt.arcsec, got.Sec(), tt.delta)
		})
	}
}

func TestRefractionBandsMeet(t *testing.T) {
	const eps = 1e-9
	edge := func(d float64) (below, above float64) {
		return Refraction(deg(d - eps)).Sec(), Refraction(deg(d + eps)).Sec()
	}

	below, above := edge(-0.575)
	assert.InDelta(t, below, above, 1)
	assert.InDelta(t, 0.575*3600, below, 10)

	below, above = edge(5)
	assert.InDelta(t, below, above, 2)
}

func TestSolarHourAngle(t *testing.T) {
	assert.InDelta(t, -180, SolarHourAngle(0).Deg(), 1e-12)
	assert.InDelta(t, 0, SolarHourAngle(720).Deg(), 1e-12)
	assert.InDelta(t, 90, SolarHourAngle(1080).Deg(), 1e-12)
	assert.InDelta(t, -90, SolarHourAngle(360).Deg(), 1e-12)
}

func TestTrueSolarTime(t *testing.T) {
	// On the Greenwich meridian with no equation of time, solar and
	// clock time coincide.
	assert.InDelta(t, 600, float64(TrueSolarTime(Site{}, 600, 0)), 1e-12)

	// Boulder sits 105° west but keeps UTC-7 (105° of zone), so only
	// the equation of time separates the clocks.
	assert.InDelta(t, 598.4, float64(TrueSolarTime(boulder, 600, -1.6)), 1e-9)

	tst := TrueSolarTime(Site{Longitude: deg(-170), UTCOffset: 0}, 10, 0)
	assert.GreaterOrEqual(t, float64(tst), 0.0)
	assert.Less(t, float64(tst), float64(MinutesPerDay))
}

func TestSkyAtNoon(t *testing.T) {
	sky, e := NewSky(boulder, Instant{Year: 2010, Month: time.June, Day: 21, Hour: 12, Minute: 2})
	decl := e.Position.Declination.Deg()

	assert.InDelta(t, 90-40+decl, sky.Elevation.Deg(), 0.05)
	assert.InDelta(t, 73.44, sky.Elevation.Deg(), 0.05)
	assert.InDelta(t, 180, sky.Azimuth.Deg(), 2)
	assert.InDelta(t, 0, sky.HourAngle.Deg(), 0.5)
	assert.InDelta(t, 90, (sky.Zenith + sky.Elevation).Deg(), 1e-9)
	assert.InDelta(t, sky.Elevation.Deg()+sky.Refraction.Deg(), sky.CorrectedElevation.Deg(), 1e-12)
}

func TestSkyAzimuthHemispheres(t *testing.T) {
	for _, hour := range []int{6, 9, 11} {
		sky, _ := NewSky(boulder, Instant{Year: 2021, Month: time.September, Day: 10, Hour: hour})
		assert.Less(t, sky.Azimuth.Deg(), 180.0, "hour %d", hour)
		assert.Less(t, sky.HourAngle.Deg(), 0.0, "hour %d", hour)
	}
	for _, hour := range []int{13, 15, 18} {
		sky, _ := NewSky(boulder, Instant{Year: 2021, Month: time.September, Day: 10, Hour: hour})
		assert.Greater(t, sky.Azimuth.Deg(), 180.0, "hour %d", hour)
		assert.Greater(t, sky.HourAngle.Deg(), 0.0, "hour %d", hour)
	}

	// South of the tropics the noon sun is due north.
	sydney := Site{Latitude: deg(-33.9), Longitude: deg(151.2), UTCOffset: 10}
	h, _ := Solver{Site: sydney}.Solve(day(2021, time.June, 21))
	noon := time.Date(2021, time.June, 21, 0, 0, 0, 0, time.UTC).Add(h.SolarNoon.Duration())
	sky, _ := NewSky(sydney, InstantOf(noon))
	az := math.Remainder(sky.Azimuth.Deg(), 360)
	assert.InDelta(t, 0, az, 1)
}

func TestSkyAtSunrise(t *testing.T) {
	date := day(2010, time.June, 21)
	h, _ := Solver{Site: boulder, Iterative: true}.Solve(date)
	require.Equal(t, Transitions, h.Daylight)

	at := time.Date(2010, time.June, 21, 0, 0, 0, 0, time.UTC).Add(h.Sunrise.Duration())
	sky, _ := NewSky(boulder, InstantOf(at))

	assert.InDelta(t, 90-HorizonZenith, sky.Elevation.Deg(), 0.05)
	want := 90 - HorizonZenith + Refraction(deg(90-HorizonZenith)).Deg()
	assert.InDelta(t, want, sky.CorrectedElevation.Deg(), 0.1)
	assert.Less(t, sky.Azimuth.Deg(), 90.0)
}
