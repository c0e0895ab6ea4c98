// Command sunup prints sunrise, solar noon and sunset times, the sun's
// position and the year's equinoxes and solstices. Its serve command
// runs scheduled sun event jobs and serves the HTTP API.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"cloudeng.io/cmdutil/subcmd"
	"github.com/soniakeys/sexagesimal"
	"github.com/soniakeys/unit"
	"github.com/subtlepseudonym/sunup"
)

const clockLayout = "2006-01-02T15:04:05"

type ObserverFlags struct {
	Latitude  float64 `subcmd:"lat,0,latitude in degrees north"`
	Longitude float64 `subcmd:"lon,0,longitude in degrees east"`
	UTCOffset float64 `subcmd:"offset,0,standard time offset from UTC in hours"`
	DST       bool    `subcmd:"dst,false,'observe daylight saving time, clock times are shifted one hour later'"`
}

func (f ObserverFlags) observer() sunup.Observer {
	return sunup.Observer{
		Latitude:  f.Latitude,
		Longitude: f.Longitude,
		UTCOffset: f.UTCOffset,
		DST:       f.DST,
	}
}

type TimesFlags struct {
	ObserverFlags
	Date      string `subcmd:"date,,'calendar day as YYYY-MM-DD, defaults to today'"`
	Iterative bool   `subcmd:"iterative,false,refine each event until its time settles"`
	Compare   bool   `subcmd:"compare,false,also print the drift against an independent sunrise library"`
}

type PositionFlags struct {
	ObserverFlags
	Time string `subcmd:"time,,'local wall clock as YYYY-MM-DDTHH:MM:SS, defaults to now'"`
}

type SeasonsFlags struct {
	ObserverFlags
	Year int `subcmd:"year,0,'calendar year, defaults to the current year'"`
}

type ServeFlags struct {
	Config string `subcmd:"config,sunup.yaml,yaml configuration file"`
}

var (
	cmdSet *subcmd.CommandSet
	out    io.Writer = os.Stdout
)

func init() {
	timesFlagSet := subcmd.MustRegisterFlagStruct(&TimesFlags{}, nil, nil)
	timesCmd := subcmd.NewCommand("times", timesFlagSet, times, subcmd.ExactlyNumArguments(0))
	timesCmd.Document(`print sunrise, solar noon and sunset for an observer and day.`)

	positionFlagSet := subcmd.MustRegisterFlagStruct(&PositionFlags{}, nil, nil)
	positionCmd := subcmd.NewCommand("position", positionFlagSet, position, subcmd.ExactlyNumArguments(0))
	positionCmd.Document(`print the sun's position for an observer at a wall clock time.`)

	seasonsFlagSet := subcmd.MustRegisterFlagStruct(&SeasonsFlags{}, nil, nil)
	seasonsCmd := subcmd.NewCommand("seasons", seasonsFlagSet, seasons, subcmd.ExactlyNumArguments(0))
	seasonsCmd.Document(`print the equinoxes and solstices of a year and the observer's day length on each.`)

	serveFlagSet := subcmd.MustRegisterFlagStruct(&ServeFlags{}, nil, nil)
	serveCmd := subcmd.NewCommand("serve", serveFlagSet, serve, subcmd.ExactlyNumArguments(0))
	serveCmd.Document(`run the configured sun event jobs and serve the HTTP API.`)

	cmdSet = subcmd.NewCommandSet(timesCmd, positionCmd, seasonsCmd, serveCmd)
	cmdSet.Document(`compute sun times and positions using the NOAA solar calculator formulas.

	Latitude is positive north and longitude positive east. The offset is the
	observer's standard time offset from UTC in hours; --dst moves the printed
	clock times one hour later without changing the underlying instants.`)
}

func main() {
	cmdSet.MustDispatch(context.Background())
}

func times(_ context.Context, values any, _ []string) error {
	fl := values.(*TimesFlags)
	obs := fl.observer()

	date := obs.Now()
	if fl.Date != "" {
		var err error
		if date, err = time.Parse(time.DateOnly, fl.Date); err != nil {
			return fmt.Errorf("date: %w", err)
		}
	}

	t, err := sunup.ComputeSunriseSunset(obs, date, sunup.Options{IterativeRefine: fl.Iterative})
	if err != nil {
		return err
	}
	printTimes(out, t)
	for _, w := range t.Warnings {
		fmt.Fprintf(out, "warning     %v\n", w)
	}

	if !fl.Compare {
		return nil
	}
	drift, err := sunup.Compare(t)
	if err != nil {
		fmt.Fprintf(out, "drift       %v\n", err)
		return nil
	}
	fmt.Fprintf(out, "drift       sunrise %v, sunset %v\n", drift.Sunrise, drift.Sunset)
	return nil
}

func printTimes(w io.Writer, t sunup.Times) {
	zone := t.Observer.Zone().String()
	if t.DST {
		zone += " dst"
	}
	fmt.Fprintf(w, "date        %s (%s)\n", t.Date.Format(time.DateOnly), zone)
	fmt.Fprintf(w, "sunrise     %s\n", t.Sunrise)
	fmt.Fprintf(w, "solar noon  %s\n", t.SolarNoon)
	fmt.Fprintf(w, "sunset      %s\n", t.Sunset)
	fmt.Fprintf(w, "day length  %s\n", dayLength(t.DayLengthMinutes))
}

func dayLength(minutes float64) time.Duration {
	return (time.Duration(minutes * float64(time.Minute))).Round(time.Second)
}

func position(_ context.Context, values any, _ []string) error {
	fl := values.(*PositionFlags)
	obs := fl.observer()

	at := obs.Now()
	if fl.Time != "" {
		var err error
		if at, err = time.Parse(clockLayout, fl.Time); err != nil {
			return fmt.Errorf("time: %w", err)
		}
	}

	p, err := sunup.ComputeInstantaneousPosition(obs, at)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "time             %s (%s)\n", at.Format(clockLayout), obs.Zone())
	fmt.Fprintf(out, "elevation        %.1s\n", sexa.FmtAngle(unit.AngleFromDeg(p.Elevation)))
	fmt.Fprintf(out, "refracted        %.1s\n", sexa.FmtAngle(unit.AngleFromDeg(p.CorrectedElevation)))
	fmt.Fprintf(out, "azimuth          %.1s\n", sexa.FmtAngle(unit.AngleFromDeg(p.Azimuth)))
	fmt.Fprintf(out, "hour angle       %.1s\n", sexa.FmtAngle(unit.AngleFromDeg(p.HourAngle)))
	fmt.Fprintf(out, "declination      %.1s\n", sexa.FmtAngle(unit.AngleFromDeg(p.Declination)))
	fmt.Fprintf(out, "right ascension  %.1s\n", sexa.FmtRA(unit.RAFromDeg(p.RightAscension)))
	fmt.Fprintf(out, "equation of time %.2f min\n", p.EquationOfTime)
	return nil
}

func seasons(_ context.Context, values any, _ []string) error {
	fl := values.(*SeasonsFlags)
	obs := fl.observer()
	year := fl.Year
	if year == 0 {
		year = obs.Now().Year()
	}

	for i, at := range sunup.Seasons(year) {
		local := at.In(obs.Zone())
		t, err := sunup.ComputeSunriseSunset(obs, local, sunup.Options{IterativeRefine: true})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%-18s %s  day length %s\n",
			sunup.Season(i), local.Format(time.RFC3339), dayLength(t.DayLengthMinutes))
	}
	return nil
}
