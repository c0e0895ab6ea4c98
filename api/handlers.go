package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"cloudeng.io/errors"
	"github.com/subtlepseudonym/sunup"
	"github.com/subtlepseudonym/sunup/metrics"
)

const (
	dateLayout  = time.DateOnly
	clockLayout = "2006-01-02T15:04:05"
)

var errMissing = errors.New("missing parameter")

type query struct {
	values url.Values
	errs   errors.M
}

func (q *query) float(name string, required bool) float64 {
	s := q.values.Get(name)
	if s == "" {
		if required {
			q.errs.Append(fmt.Errorf("%s: %w", name, errMissing))
		}
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		q.errs.Append(fmt.Errorf("%s: %w", name, err))
	}
	return v
}

func (q *query) bool(name string) bool {
	s := q.values.Get(name)
	if s == "" {
		return false
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		q.errs.Append(fmt.Errorf("%s: %w", name, err))
	}
	return v
}

func (q *query) int(name string, def int) int {
	s := q.values.Get(name)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		q.errs.Append(fmt.Errorf("%s: %w", name, err))
	}
	return v
}

func (q *query) observer() sunup.Observer {
	return sunup.Observer{
		Latitude:  q.float("lat", true),
		Longitude: q.float("lon", true),
		UTCOffset: q.float("offset", false),
		DST:       q.bool("dst"),
	}
}

type timesResponse struct {
	Date             string   `json:"date"`
	Latitude         float64  `json:"latitude"`
	Longitude        float64  `json:"longitude"`
	UTCOffset        float64  `json:"utc_offset"`
	DST              bool     `json:"dst"`
	Iterative        bool     `json:"iterative"`
	Daylight         string   `json:"daylight"`
	Sunrise          string   `json:"sunrise,omitempty"`
	SolarNoon        string   `json:"solar_noon"`
	Sunset           string   `json:"sunset,omitempty"`
	DayLengthMinutes float64  `json:"day_length_minutes"`
	Warnings         []string `json:"warnings,omitempty"`
}

func (s *Server) times(w http.ResponseWriter, r *http.Request) {
	q := &query{values: r.URL.Query()}
	obs := q.observer()
	opts := sunup.Options{IterativeRefine: q.bool("iterative")}

	date := obs.Now()
	if d := q.values.Get("date"); d != "" {
		var err error
		date, err = time.Parse(dateLayout, d)
		if err != nil {
			q.errs.Append(fmt.Errorf("date: %w", err))
		}
	}
	if err := q.errs.Err(); err != nil {
		metrics.Query("times", "invalid")
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	t, err := sunup.ComputeSunriseSunset(obs, date, opts)
	if err != nil {
		metrics.Query("times", "invalid")
		s.writeError(w, statusFor(err), err)
		return
	}
	metrics.Query("times", outcome(t.Daylight()))

	resp := timesResponse{
		Date:             t.Date.Format(dateLayout),
		Latitude:         obs.Latitude,
		Longitude:        obs.Longitude,
		UTCOffset:        obs.UTCOffset,
		DST:              t.DST,
		Iterative:        opts.IterativeRefine,
		Daylight:         t.Daylight().String(),
		SolarNoon:        t.SolarNoon.String(),
		DayLengthMinutes: t.DayLengthMinutes,
	}
	if t.Sunrise.OK() {
		resp.Sunrise = t.Sunrise.Time.String()
		resp.Sunset = t.Sunset.Time.String()
	}
	for _, warning := range t.Warnings {
		metrics.ConvergenceWarning(warning.Event.String())
		s.logger.Warn("refinement did not converge", "observer", obs.String(), "date", resp.Date, "err", warning)
		resp.Warnings = append(resp.Warnings, warning.Error())
	}
	s.writeJSON(w, http.StatusOK, resp)
}

type positionResponse struct {
	Time               string  `json:"time"`
	Zenith             float64 `json:"zenith"`
	Elevation          float64 `json:"elevation"`
	CorrectedElevation float64 `json:"corrected_elevation"`
	Azimuth            float64 `json:"azimuth"`
	HourAngle          float64 `json:"hour_angle"`
	Declination        float64 `json:"declination"`
	RightAscension     float64 `json:"right_ascension"`
	EquationOfTime     float64 `json:"equation_of_time"`
}

func (s *Server) position(w http.ResponseWriter, r *http.Request) {
	q := &query{values: r.URL.Query()}
	obs := q.observer()

	at := obs.Now()
	if v := q.values.Get("time"); v != "" {
		var err error
		at, err = time.Parse(clockLayout, v)
		if err != nil {
			q.errs.Append(fmt.Errorf("time: %w", err))
		}
	}
	if err := q.errs.Err(); err != nil {
		metrics.Query("position", "invalid")
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	p, err := sunup.ComputeInstantaneousPosition(obs, at)
	if err != nil {
		metrics.Query("position", "invalid")
		s.writeError(w, statusFor(err), err)
		return
	}
	metrics.Query("position", "ok")

	s.writeJSON(w, http.StatusOK, positionResponse{
		Time:               at.Format(clockLayout),
		Zenith:             p.Zenith,
		Elevation:          p.Elevation,
		CorrectedElevation: p.CorrectedElevation,
		Azimuth:            p.Azimuth,
		HourAngle:          p.HourAngle,
		Declination:        p.Declination,
		RightAscension:     p.RightAscension,
		EquationOfTime:     p.EquationOfTime,
	})
}

type seasonResponse struct {
	Season string `json:"season"`
	At     string `json:"at"`
}

func (s *Server) seasons(w http.ResponseWriter, r *http.Request) {
	q := &query{values: r.URL.Query()}
	year := q.int("year", time.Now().Year())
	if err := q.errs.Err(); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if year < 1000 || year > 3000 {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("year %d outside [1000, 3000]", year))
		return
	}

	all := sunup.Seasons(year)
	resp := make([]seasonResponse, 0, len(all))
	for i, at := range all {
		resp = append(resp, seasonResponse{
			Season: sunup.Season(i).String(),
			At:     at.Format(time.RFC3339),
		})
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func statusFor(err error) int {
	if errors.Is(err, sunup.ErrInputDomain) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func outcome(d sunup.Daylight) string {
	if d == sunup.Transitions {
		return "ok"
	}
	return d.String()
}
