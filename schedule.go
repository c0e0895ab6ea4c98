package sunup

import (
	"context"
	"fmt"
	"time"

	"cloudeng.io/errors"
	"cloudeng.io/logging/ctxlog"
)

// searchDays bounds how far ahead a schedule looks for its event. A
// year covers the longest polar day or night.
const searchDays = 366

// EventSchedule fires at a daily sun event shifted by Offset. Days on
// which the event does not happen are skipped.
//
// This implements robfig/cron.Schedule
type EventSchedule struct {
	Observer Observer
	Options  Options
	Event    Event
	Offset   time.Duration

	ctx context.Context
}

// NewEventSchedule returns a schedule that logs through the logger
// carried by ctx.
func NewEventSchedule(ctx context.Context, obs Observer, opts Options, event Event, offset time.Duration) EventSchedule {
	return EventSchedule{
		Observer: obs,
		Options:  opts,
		Event:    event,
		Offset:   offset,
		ctx:      ctx,
	}
}

func (s EventSchedule) context() context.Context {
	if s.ctx == nil {
		return context.Background()
	}
	return s.ctx
}

// Next returns the first firing strictly after now, in now's location.
// It returns the zero time, which stops cron from running the job, if
// the observer is invalid or the event does not occur within a year.
func (s EventSchedule) Next(now time.Time) time.Time {
	next, err := s.NextAfter(now)
	if err != nil {
		ctxlog.Logger(s.context()).Error("ERR: next sun event", "event", s.Event.String(), "offset", s.Offset.String(), "err", err)
		return time.Time{}
	}
	ctxlog.Logger(s.context()).Debug("next sun event", "event", s.Event.String(), "offset", s.Offset.String(), "at", next.Format(time.RFC3339))
	return next
}

// NextAfter is Next with the failure reported.
func (s EventSchedule) NextAfter(now time.Time) (time.Time, error) {
	local := now.In(s.Observer.Zone())
	// Start a day early: a positive offset can carry yesterday's event
	// past midnight.
	day := time.Date(local.Year(), local.Month(), local.Day()-1, 12, 0, 0, 0, local.Location())
	for i := 0; i <= searchDays+1; i++ {
		times, err := ComputeSunriseSunset(s.Observer, day.AddDate(0, 0, i), s.Options)
		if err != nil {
			return time.Time{}, err
		}
		at, err := times.At(s.Event)
		if errors.Is(err, ErrNoTransition) {
			continue
		}
		if err != nil {
			return time.Time{}, err
		}
		if fire := at.Add(s.Offset); fire.After(now) {
			return fire.In(now.Location()), nil
		}
	}
	return time.Time{}, fmt.Errorf("no %s within %d days of %s: %w", s.Event, searchDays, now.Format(time.DateOnly), ErrNoTransition)
}
