package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/KotFed0t/finfusion/internal/service"
	"github.com/KotFed0t/finfusion/utils"
	"github.com/go-co-op/gocron/v2"
)

type Job func(ctx context.Context) error

// Scheduler runs the background sync jobs of a session.
type Scheduler struct {
	scheduler gocron.Scheduler
}

func New(opts ...gocron.SchedulerOption) (*Scheduler, error) {
	scheduler, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	return &Scheduler{scheduler: scheduler}, nil
}

func (s *Scheduler) Start() {
	s.scheduler.Start()
}

func (s *Scheduler) Stop() {
	if err := s.scheduler.Shutdown(); err != nil {
		slog.Error("scheduler shutdown failed", slog.String("err", err.Error()))
	}
}

// Every registers job to run each interval. A run still in progress delays the next one.
func (s *Scheduler) Every(name string, interval time.Duration, job Job, startImmediately bool) error {
	opts := []gocron.JobOption{
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	}

	if startImmediately {
		opts = append(opts, gocron.WithStartAt(gocron.WithStartImmediately()))
	}

	_, err := s.scheduler.NewJob(gocron.DurationJob(interval), gocron.NewTask(wrap(name, job)), opts...)
	if err != nil {
		slog.Error("scheduler creating job error", slog.String("jobName", name), slog.String("err", err.Error()))
		return fmt.Errorf("create job %s: %w", name, err)
	}

	return nil
}

// wrap gives every run its own request id and keeps a panicking job from killing the scheduler.
func wrap(jobName string, job Job) func(ctx context.Context) {
	return func(ctx context.Context) {
		ctx = utils.CreateCtxWithRqID(ctx)
		rqID := utils.GetRequestIDFromCtx(ctx)

		defer func() {
			if r := recover(); r != nil {
				slog.Error(
					"panic recovered in scheduler job",
					slog.String("rqID", rqID),
					slog.String("jobName", jobName),
					slog.Any("panic", r),
					slog.String("stacktrace", string(debug.Stack())),
				)
			}
		}()

		slog.Debug("job start", slog.String("rqID", rqID), slog.String("jobName", jobName))

		err := job(ctx)
		switch {
		case err == nil:
			slog.Debug("job completed", slog.String("rqID", rqID), slog.String("jobName", jobName))
		case errors.Is(err, service.ErrSyncSkipped):
			slog.Debug("job skipped", slog.String("rqID", rqID), slog.String("jobName", jobName))
		default:
			slog.Warn("job failed", slog.String("rqID", rqID), slog.String("jobName", jobName), slog.String("err", err.Error()))
		}
	}
}
