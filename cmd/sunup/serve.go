package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloudeng.io/logging/ctxlog"
	"github.com/robfig/cron/v3"
	"github.com/subtlepseudonym/sunup"
	"github.com/subtlepseudonym/sunup/api"
	"github.com/subtlepseudonym/sunup/config"
	"github.com/subtlepseudonym/sunup/metrics"
)

func serve(ctx context.Context, values any, _ []string) error {
	fl := values.(*ServeFlags)

	// manually set local timezone for docker container
	if tz := os.Getenv("TZ"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return fmt.Errorf("load tz location: %w", err)
		}
		time.Local = loc
	}

	cfg, err := config.Open(fl.Config)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = ctxlog.NewJSONLogger(ctx, os.Stderr, nil)
	logger := ctxlog.Logger(ctx)

	srv := api.NewServer(ctx, cfg.Listen)
	sunCron, err := schedule(ctx, cfg, srv.Record, time.Now())
	if err != nil {
		return err
	}

	go func() {
		logger.Info("listening", "addr", cfg.Listen, "observer", cfg.Observer().String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("ERR: listen", "err", err)
			stop()
		}
	}()

	sunCron.Start()
	<-ctx.Done()
	logger.Info("shutting down")
	<-sunCron.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.HTTPServer().Shutdown(shutdownCtx)
}

// schedule registers a cron entry for every configured job. now is
// only used for logging each job's first firing.
func schedule(ctx context.Context, cfg *config.Config, notify func(context.Context, sunup.Firing), now time.Time) (*cron.Cron, error) {
	logger := ctxlog.Logger(ctx)
	sunCron := cron.New()
	for _, j := range cfg.Jobs {
		event, offset, err := j.Parse()
		if err != nil {
			return nil, fmt.Errorf("job %q: %w", j.Name, err)
		}
		s := sunup.NewEventSchedule(ctx, cfg.Observer(), cfg.Options(), event, offset)
		job := sunup.NewEventJob(j.Name, s)
		job.Notify = notify
		sunCron.Schedule(s, job)

		next := s.Next(now)
		metrics.NextEvent(j.Name, next)
		logger.Info("job", "name", j.Name, "event", event.String(), "offset", offset.String(), "next", next.Local().Format(time.RFC3339))
	}
	return sunCron, nil
}
