package sunup

import (
	"context"
	"time"

	"cloudeng.io/logging/ctxlog"
	"github.com/subtlepseudonym/sunup/metrics"
)

// Firing describes one run of an EventJob.
type Firing struct {
	Job   string
	Event Event
	At    time.Time
	Times Times
}

// EventJob reports a sun event each time its schedule fires.
//
// This implements robfig/cron.Job
type EventJob struct {
	Name     string
	Schedule EventSchedule

	// Notify, if set, receives every firing.
	Notify func(context.Context, Firing)

	now func() time.Time
}

// NewEventJob returns a job for schedule.
func NewEventJob(name string, schedule EventSchedule) *EventJob {
	return &EventJob{Name: name, Schedule: schedule, now: time.Now}
}

// Run logs the day's sun times, counts the firing and passes it to
// Notify.
func (j *EventJob) Run() {
	ctx := j.Schedule.context()
	now := time.Now()
	if j.now != nil {
		now = j.now()
	}
	logger := ctxlog.Logger(ctx).With("job", j.Name, "event", j.Schedule.Event.String())

	times, err := ComputeSunriseSunset(j.Schedule.Observer, now.In(j.Schedule.Observer.Zone()), j.Schedule.Options)
	if err != nil {
		logger.Error("ERR: compute sun times", "err", err)
		return
	}
	for _, w := range times.Warnings {
		logger.Warn("refinement did not converge", "err", w)
		metrics.ConvergenceWarning(w.Event.String())
	}

	logger.Info("sun event",
		"at", now.Format(time.RFC3339),
		"sunrise", times.Sunrise.String(),
		"noon", times.SolarNoon.String(),
		"sunset", times.Sunset.String(),
	)
	metrics.EventFired(j.Name, j.Schedule.Event.String())
	metrics.NextEvent(j.Name, j.Schedule.Next(now))

	if j.Notify != nil {
		j.Notify(ctx, Firing{Job: j.Name, Event: j.Schedule.Event, At: now, Times: times})
	}
}
