package scheduler

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/sentinel-ews/sentinel/internal/clock"
	"github.com/sentinel-ews/sentinel/internal/config"
	"github.com/sentinel-ews/sentinel/internal/observability/metrics"
	subscriptiondomain "github.com/sentinel-ews/sentinel/internal/subscription/domain"
)

const (
	JobDailyDigest   = "daily_digest"
	JobWeeklyDigest  = "weekly_digest"
	JobMonthlyDigest = "monthly_digest"
	JobFeedCleanup   = "feed_cleanup"

	tickInterval = time.Minute
	jobTimeout   = 10 * time.Minute
	cleanupEvery = time.Hour
)

// DigestRunner queues one digest cycle for a cadence.
type DigestRunner interface {
	ProcessDigest(ctx context.Context, frequency string) (int, error)
}

// FeedCleaner removes expired in-app notifications.
type FeedCleaner interface {
	CleanupExpired(ctx context.Context) (int64, error)
}

type Params struct {
	fx.In

	Log      *zap.Logger
	Clock    clock.Clock
	Delivery *config.DeliveryConfigHolder
	Digests  DigestRunner
	Cleaner  FeedCleaner
	Metrics  *metrics.Metrics `optional:"true"`
}

// Scheduler fires the digest cycles at their configured hour and sweeps
// the notification feed. Due checks run off the injected clock so the
// whole cadence is testable without sleeping.
type Scheduler struct {
	log      *zap.Logger
	clock    clock.Clock
	delivery *config.DeliveryConfigHolder
	digests  DigestRunner
	cleaner  FeedCleaner
	metrics  *metrics.Metrics

	lastRun map[string]time.Time
}

func New(p Params) *Scheduler {
	return &Scheduler{
		log:      p.Log.Named("scheduler"),
		clock:    p.Clock,
		delivery: p.Delivery,
		digests:  p.Digests,
		cleaner:  p.Cleaner,
		metrics:  p.Metrics,
		lastRun:  map[string]time.Time{},
	}
}

// RunOnce evaluates which jobs are due at the clock's current time and
// runs them. Each job fires at most once per calendar day (cleanup at
// most once per hour).
func (s *Scheduler) RunOnce(ctx context.Context) {
	now := s.clock.Now().UTC()
	cfg := s.delivery.Current()

	if s.digestDue(JobDailyDigest, now, cfg) {
		s.runJob(ctx, JobDailyDigest, s.digestJob(subscriptiondomain.FrequencyDaily))
	}
	if s.digestDue(JobWeeklyDigest, now, cfg) && weekdayMatches(now, cfg.WeeklyDigestDay) {
		s.runJob(ctx, JobWeeklyDigest, s.digestJob(subscriptiondomain.FrequencyWeekly))
	}
	if s.digestDue(JobMonthlyDigest, now, cfg) && now.Day() == cfg.MonthlyDigestDay {
		s.runJob(ctx, JobMonthlyDigest, s.digestJob(subscriptiondomain.FrequencyMonthly))
	}

	if last, ok := s.lastRun[JobFeedCleanup]; !ok || now.Sub(last) >= cleanupEvery {
		s.lastRun[JobFeedCleanup] = now
		s.runJob(ctx, JobFeedCleanup, func(ctx context.Context) error {
			removed, err := s.cleaner.CleanupExpired(ctx)
			if err != nil {
				return err
			}
			if removed > 0 {
				s.log.Info("expired notifications removed", zap.Int64("count", removed))
			}
			return nil
		})
	}
}

// RunForever ticks until the context is cancelled.
func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	s.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// digestDue reports whether a digest job should fire: the configured hour
// has been reached and the job has not yet run today. It records the run
// eagerly so a failing job does not retry every tick until midnight.
func (s *Scheduler) digestDue(job string, now time.Time, cfg config.DeliveryConfig) bool {
	if now.Hour() != cfg.DigestHourUTC {
		return false
	}
	if last, ok := s.lastRun[job]; ok && sameDay(last, now) {
		return false
	}
	s.lastRun[job] = now
	return true
}

func (s *Scheduler) digestJob(frequency string) func(context.Context) error {
	return func(ctx context.Context) error {
		_, err := s.digests.ProcessDigest(ctx, frequency)
		return err
	}
}

func (s *Scheduler) runJob(ctx context.Context, name string, fn func(context.Context) error) {
	s.metrics.IncJobRun(name)
	jobCtx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	start := s.clock.Now()
	err := fn(jobCtx)
	s.metrics.ObserveJobDuration(name, s.clock.Now().Sub(start))

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			s.metrics.IncJobTimeout(name)
		}
		s.metrics.IncJobError(name)
		s.log.Error("scheduled job failed", zap.String("job", name), zap.Error(err))
		return
	}
	s.log.Debug("scheduled job finished", zap.String("job", name))
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func weekdayMatches(now time.Time, day string) bool {
	return strings.EqualFold(now.Weekday().String(), day)
}
