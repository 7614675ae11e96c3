package notify

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"

	alertdomain "github.com/sentinel-ews/sentinel/internal/alert/domain"
	notificationdomain "github.com/sentinel-ews/sentinel/internal/notification/domain"
	"github.com/sentinel-ews/sentinel/internal/observability/metrics"
	subscriptiondomain "github.com/sentinel-ews/sentinel/internal/subscription/domain"
)

// Matcher computes the subscriptions an alert reaches.
type Matcher interface {
	Match(ctx context.Context, alert *alertdomain.Alert) ([]subscriptiondomain.Subscription, error)
}

// FeedCreator writes the in-app notification entry.
type FeedCreator interface {
	CreateAlertNotification(ctx context.Context, userID snowflake.ID, alert *alertdomain.Alert) (*notificationdomain.InternalNotification, error)
}

// SlackPoster posts the alert to the team channel. Never raises.
type SlackPoster interface {
	PostAlert(ctx context.Context, alert *alertdomain.Alert) bool
}

// EmailEnqueuer hands the per-user email job to the queue.
type EmailEnqueuer interface {
	EnqueueAlertEmail(ctx context.Context, userID, alertID snowflake.ID) error
}

type DispatcherParams struct {
	fx.In

	Log      *zap.Logger
	Matcher  Matcher
	Feed     FeedCreator
	Slack    SlackPoster
	Enqueuer EmailEnqueuer
	Metrics  *metrics.Metrics `optional:"true"`
}

// Dispatcher fans a new alert out across the three channels: one Slack
// post, then per-subscriber email jobs and feed entries. Channels are
// fault-isolated; one bad subscriber never aborts the batch.
type Dispatcher struct {
	log      *zap.Logger
	matcher  Matcher
	feed     FeedCreator
	slack    SlackPoster
	enqueuer EmailEnqueuer
	metrics  *metrics.Metrics
}

func NewDispatcher(p DispatcherParams) *Dispatcher {
	return &Dispatcher{
		log:      p.Log.Named("notify.dispatcher"),
		matcher:  p.Matcher,
		feed:     p.Feed,
		slack:    p.Slack,
		enqueuer: p.Enqueuer,
		metrics:  p.Metrics,
	}
}

// AsAlertDispatcher exposes the dispatcher under the alert service's
// dependency.
func AsAlertDispatcher(d *Dispatcher) alertdomain.Dispatcher { return d }

func (d *Dispatcher) DispatchAlert(ctx context.Context, alert *alertdomain.Alert) alertdomain.DispatchOutcome {
	var outcome alertdomain.DispatchOutcome

	// Slack goes first and never aborts the fan-out.
	if d.slack.PostAlert(ctx, alert) {
		outcome.SlackSent = 1
		d.metrics.IncDispatched(metrics.ChannelSlack, 1)
	}

	subs, err := d.matcher.Match(ctx, alert)
	if err != nil {
		d.log.Error("subscription matching failed",
			zap.String("alert_id", alert.ID.String()), zap.Error(err))
		outcome.Errors++
		return outcome
	}

	for _, sub := range subs {
		if sub.Frequency != subscriptiondomain.FrequencyImmediate {
			continue
		}
		d.notifySubscriber(ctx, &sub, alert, &outcome)
	}

	d.log.Info("alert notifications sent",
		zap.String("alert_id", alert.ID.String()),
		zap.Int("email_queued", outcome.EmailQueued),
		zap.Int("internal_created", outcome.InternalCreated),
		zap.Int("slack_sent", outcome.SlackSent),
		zap.Int("errors", outcome.Errors))
	return outcome
}

// notifySubscriber handles one user's channels. Any failure counts as one
// error and skips the rest of that user's processing; the loop continues
// with the next subscriber.
func (d *Dispatcher) notifySubscriber(ctx context.Context, sub *subscriptiondomain.Subscription, alert *alertdomain.Alert, outcome *alertdomain.DispatchOutcome) {
	if sub.User.EmailNotificationsEnabled {
		if err := d.enqueuer.EnqueueAlertEmail(ctx, sub.UserID, alert.ID); err != nil {
			d.subscriberFailed(sub.UserID, alert.ID, err, outcome)
			return
		}
		outcome.EmailQueued++
	}

	if _, err := d.feed.CreateAlertNotification(ctx, sub.UserID, alert); err != nil {
		d.subscriberFailed(sub.UserID, alert.ID, err, outcome)
		return
	}
	outcome.InternalCreated++
	d.metrics.IncDispatched(metrics.ChannelInternal, 1)
}

func (d *Dispatcher) subscriberFailed(userID, alertID snowflake.ID, err error, outcome *alertdomain.DispatchOutcome) {
	d.log.Error("failed to notify user",
		zap.String("user_id", userID.String()),
		zap.String("alert_id", alertID.String()),
		zap.Error(err))
	outcome.Errors++
	d.metrics.IncDispatchErrors(1)
}
