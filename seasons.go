package sunup

import (
	"fmt"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/solstice"
	"github.com/subtlepseudonym/sunup/solar"
)

// Season names an equinox or solstice.
type Season int

const (
	MarchEquinox Season = iota
	JuneSolstice
	SeptemberEquinox
	DecemberSolstice
)

func (s Season) String() string {
	switch s {
	case MarchEquinox:
		return "march equinox"
	case JuneSolstice:
		return "june solstice"
	case SeptemberEquinox:
		return "september equinox"
	case DecemberSolstice:
		return "december solstice"
	}
	return fmt.Sprintf("Season(%d)", int(s))
}

// Seasons returns the instants of the year's equinoxes and solstices,
// in UTC, indexed by Season.
func Seasons(year int) [4]time.Time {
	return [4]time.Time{
		MarchEquinox:     utc(solstice.March(year)),
		JuneSolstice:     utc(solstice.June(year)),
		SeptemberEquinox: utc(solstice.September(year)),
		DecemberSolstice: utc(solstice.December(year)),
	}
}

// utc converts a Julian ephemeris day in dynamical time to UTC.
func utc(jde float64) time.Time {
	tt := julian.JDToTime(jde)
	return tt.Add(-solar.DynamicalOffset(tt)).Round(time.Second)
}
