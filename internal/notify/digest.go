package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	alertdomain "github.com/sentinel-ews/sentinel/internal/alert/domain"
	"github.com/sentinel-ews/sentinel/internal/clock"
	"github.com/sentinel-ews/sentinel/internal/observability/metrics"
	subscriptiondomain "github.com/sentinel-ews/sentinel/internal/subscription/domain"
)

// SubscriptionLister loads the active subscriptions for a digest cadence.
type SubscriptionLister interface {
	ListActiveByFrequency(ctx context.Context, frequency string) ([]subscriptiondomain.Subscription, error)
}

// DigestEnqueuer hands one user's digest job to the queue.
type DigestEnqueuer interface {
	EnqueueDigestEmail(ctx context.Context, userID snowflake.ID, alertIDs []snowflake.ID, frequency string) error
}

var digestWindows = map[string]time.Duration{
	subscriptiondomain.FrequencyDaily:   24 * time.Hour,
	subscriptiondomain.FrequencyWeekly:  7 * 24 * time.Hour,
	subscriptiondomain.FrequencyMonthly: 30 * 24 * time.Hour,
}

type DigestParams struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Clock    clock.Clock
	Subs     SubscriptionLister
	Alerts   alertdomain.Repository
	Enqueuer DigestEnqueuer
	Metrics  *metrics.Metrics `optional:"true"`
}

// DigestProcessor collects the alerts of a cadence window per subscriber
// and queues one digest email each. Matching here is a flat intersection
// on the subscription's own location and shock type sets, no hierarchy
// expansion.
type DigestProcessor struct {
	db       *gorm.DB
	log      *zap.Logger
	clock    clock.Clock
	subs     SubscriptionLister
	alerts   alertdomain.Repository
	enqueuer DigestEnqueuer
	metrics  *metrics.Metrics
}

func NewDigestProcessor(p DigestParams) *DigestProcessor {
	return &DigestProcessor{
		db:       p.DB,
		log:      p.Log.Named("notify.digest"),
		clock:    p.Clock,
		subs:     p.Subs,
		alerts:   p.Alerts,
		enqueuer: p.Enqueuer,
		metrics:  p.Metrics,
	}
}

// ProcessDigest runs one digest cycle for the given frequency and returns
// the number of digest emails queued.
func (d *DigestProcessor) ProcessDigest(ctx context.Context, frequency string) (int, error) {
	window, ok := digestWindows[frequency]
	if !ok {
		return 0, fmt.Errorf("unknown digest frequency %q", frequency)
	}
	since := d.clock.Now().Add(-window)

	subs, err := d.subs.ListActiveByFrequency(ctx, frequency)
	if err != nil {
		return 0, err
	}

	queued := 0
	for _, sub := range subs {
		if !sub.User.EmailNotificationsEnabled {
			continue
		}

		alerts, err := d.alerts.ListCreatedSince(ctx, d.db, since, locationIDs(&sub), shockTypeIDs(&sub))
		if err != nil {
			d.log.Error("digest alert lookup failed",
				zap.String("user_id", sub.UserID.String()),
				zap.String("frequency", frequency),
				zap.Error(err))
			continue
		}
		if len(alerts) == 0 {
			continue
		}

		ids := make([]snowflake.ID, 0, len(alerts))
		for _, a := range alerts {
			ids = append(ids, a.ID)
		}
		if err := d.enqueuer.EnqueueDigestEmail(ctx, sub.UserID, ids, frequency); err != nil {
			d.log.Error("failed to queue digest email",
				zap.String("user_id", sub.UserID.String()),
				zap.String("frequency", frequency),
				zap.Error(err))
			continue
		}
		queued++
	}

	d.metrics.IncDigestQueued(frequency, queued)
	d.log.Info("digest cycle complete",
		zap.String("frequency", frequency),
		zap.Int("subscriptions", len(subs)),
		zap.Int("queued", queued))
	return queued, nil
}

func locationIDs(sub *subscriptiondomain.Subscription) []snowflake.ID {
	ids := make([]snowflake.ID, 0, len(sub.Locations))
	for _, l := range sub.Locations {
		ids = append(ids, l.ID)
	}
	return ids
}

func shockTypeIDs(sub *subscriptiondomain.Subscription) []snowflake.ID {
	ids := make([]snowflake.ID, 0, len(sub.ShockTypes))
	for _, st := range sub.ShockTypes {
		ids = append(ids, st.ID)
	}
	return ids
}
