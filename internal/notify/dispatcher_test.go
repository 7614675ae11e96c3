package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	alertdomain "github.com/sentinel-ews/sentinel/internal/alert/domain"
	"github.com/sentinel-ews/sentinel/internal/clock"
	locationdomain "github.com/sentinel-ews/sentinel/internal/location/domain"
	notificationdomain "github.com/sentinel-ews/sentinel/internal/notification/domain"
	shocktypedomain "github.com/sentinel-ews/sentinel/internal/shocktype/domain"
	subscriptiondomain "github.com/sentinel-ews/sentinel/internal/subscription/domain"
	userdomain "github.com/sentinel-ews/sentinel/internal/user/domain"
)

type fakeMatcher struct {
	subs []subscriptiondomain.Subscription
	err  error
}

func (m *fakeMatcher) Match(ctx context.Context, alert *alertdomain.Alert) ([]subscriptiondomain.Subscription, error) {
	return m.subs, m.err
}

type fakeFeed struct {
	failFor snowflake.ID
	created []snowflake.ID
}

func (f *fakeFeed) CreateAlertNotification(ctx context.Context, userID snowflake.ID, alert *alertdomain.Alert) (*notificationdomain.InternalNotification, error) {
	if userID == f.failFor && f.failFor != 0 {
		return nil, errors.New("feed write failed")
	}
	f.created = append(f.created, userID)
	return &notificationdomain.InternalNotification{UserID: userID}, nil
}

type fakeSlack struct{ ok bool }

func (s *fakeSlack) PostAlert(ctx context.Context, alert *alertdomain.Alert) bool { return s.ok }

type fakeEnqueuer struct {
	failFor snowflake.ID
	queued  []snowflake.ID
}

func (e *fakeEnqueuer) EnqueueAlertEmail(ctx context.Context, userID, alertID snowflake.ID) error {
	if userID == e.failFor && e.failFor != 0 {
		return errors.New("queue unavailable")
	}
	e.queued = append(e.queued, userID)
	return nil
}

func immediateSub(userID snowflake.ID, emailEnabled bool) subscriptiondomain.Subscription {
	return subscriptiondomain.Subscription{
		UserID:    userID,
		User:      userdomain.User{ID: userID, EmailNotificationsEnabled: emailEnabled},
		Active:    true,
		Frequency: subscriptiondomain.FrequencyImmediate,
	}
}

func newTestDispatcher(matcher *fakeMatcher, feed *fakeFeed, sl *fakeSlack, enq *fakeEnqueuer) *Dispatcher {
	return &Dispatcher{
		log:      zap.NewNop(),
		matcher:  matcher,
		feed:     feed,
		slack:    sl,
		enqueuer: enq,
	}
}

func TestDispatchAlertFanOut(t *testing.T) {
	matcher := &fakeMatcher{subs: []subscriptiondomain.Subscription{
		immediateSub(1, true),
		immediateSub(2, true),
		immediateSub(3, true),
	}}
	feed := &fakeFeed{}
	enq := &fakeEnqueuer{}
	d := newTestDispatcher(matcher, feed, &fakeSlack{ok: true}, enq)

	outcome := d.DispatchAlert(context.Background(), &alertdomain.Alert{ID: 100})

	assert.Equal(t, 3, outcome.EmailQueued)
	assert.Equal(t, 3, outcome.InternalCreated)
	assert.Equal(t, 1, outcome.SlackSent)
	assert.Equal(t, 0, outcome.Errors)
}

func TestDispatchAlertIsolatesSubscriberFailure(t *testing.T) {
	matcher := &fakeMatcher{subs: []subscriptiondomain.Subscription{
		immediateSub(1, true),
		immediateSub(2, true),
		immediateSub(3, true),
	}}
	feed := &fakeFeed{}
	enq := &fakeEnqueuer{failFor: 2}
	d := newTestDispatcher(matcher, feed, &fakeSlack{}, enq)

	outcome := d.DispatchAlert(context.Background(), &alertdomain.Alert{ID: 100})

	assert.Equal(t, 2, outcome.EmailQueued)
	assert.Equal(t, 2, outcome.InternalCreated)
	assert.Equal(t, 1, outcome.Errors)
	assert.ElementsMatch(t, []snowflake.ID{1, 3}, enq.queued)
	assert.ElementsMatch(t, []snowflake.ID{1, 3}, feed.created)
}

func TestDispatchAlertFeedFailureCountsOnce(t *testing.T) {
	matcher := &fakeMatcher{subs: []subscriptiondomain.Subscription{
		immediateSub(1, true),
		immediateSub(2, true),
	}}
	feed := &fakeFeed{failFor: 1}
	enq := &fakeEnqueuer{}
	d := newTestDispatcher(matcher, feed, &fakeSlack{}, enq)

	outcome := d.DispatchAlert(context.Background(), &alertdomain.Alert{ID: 100})

	// The email for user 1 was already queued before the feed write failed.
	assert.Equal(t, 2, outcome.EmailQueued)
	assert.Equal(t, 1, outcome.InternalCreated)
	assert.Equal(t, 1, outcome.Errors)
}

func TestDispatchAlertSkipsEmailWhenDisabled(t *testing.T) {
	matcher := &fakeMatcher{subs: []subscriptiondomain.Subscription{
		immediateSub(1, false),
	}}
	feed := &fakeFeed{}
	enq := &fakeEnqueuer{}
	d := newTestDispatcher(matcher, feed, &fakeSlack{}, enq)

	outcome := d.DispatchAlert(context.Background(), &alertdomain.Alert{ID: 100})

	assert.Equal(t, 0, outcome.EmailQueued)
	assert.Equal(t, 1, outcome.InternalCreated)
	assert.Empty(t, enq.queued)
}

func TestDispatchAlertSkipsDigestSubscriptions(t *testing.T) {
	daily := immediateSub(1, true)
	daily.Frequency = subscriptiondomain.FrequencyDaily
	matcher := &fakeMatcher{subs: []subscriptiondomain.Subscription{daily}}
	feed := &fakeFeed{}
	enq := &fakeEnqueuer{}
	d := newTestDispatcher(matcher, feed, &fakeSlack{}, enq)

	outcome := d.DispatchAlert(context.Background(), &alertdomain.Alert{ID: 100})

	assert.Equal(t, 0, outcome.EmailQueued)
	assert.Equal(t, 0, outcome.InternalCreated)
}

func TestDispatchAlertMatcherFailure(t *testing.T) {
	matcher := &fakeMatcher{err: errors.New("db down")}
	d := newTestDispatcher(matcher, &fakeFeed{}, &fakeSlack{ok: true}, &fakeEnqueuer{})

	outcome := d.DispatchAlert(context.Background(), &alertdomain.Alert{ID: 100})

	assert.Equal(t, 1, outcome.SlackSent)
	assert.Equal(t, 1, outcome.Errors)
	assert.Equal(t, 0, outcome.EmailQueued)
}

type fakeSubLister struct {
	subs []subscriptiondomain.Subscription
}

func (l *fakeSubLister) ListActiveByFrequency(ctx context.Context, frequency string) ([]subscriptiondomain.Subscription, error) {
	return l.subs, nil
}

type fakeDigestEnqueuer struct {
	jobs map[snowflake.ID][]snowflake.ID
}

func (e *fakeDigestEnqueuer) EnqueueDigestEmail(ctx context.Context, userID snowflake.ID, alertIDs []snowflake.ID, frequency string) error {
	if e.jobs == nil {
		e.jobs = map[snowflake.ID][]snowflake.ID{}
	}
	e.jobs[userID] = alertIDs
	return nil
}

// stubAlertSource serves a canned alert set keyed by shock type through
// the repository method the digest processor uses. The embedded interface
// covers the methods the test never calls.
type stubAlertSource struct {
	alertdomain.Repository

	byShockType map[snowflake.ID][]alertdomain.Alert
	seenSince   time.Time
}

func (s *stubAlertSource) ListCreatedSince(ctx context.Context, db *gorm.DB, since time.Time, locationIDs, shockTypeIDs []snowflake.ID) ([]alertdomain.Alert, error) {
	s.seenSince = since
	if len(locationIDs) == 0 || len(shockTypeIDs) == 0 {
		return nil, nil
	}
	var out []alertdomain.Alert
	for _, st := range shockTypeIDs {
		out = append(out, s.byShockType[st]...)
	}
	return out, nil
}

func digestSub(userID snowflake.ID, emailEnabled bool, locationID, shockTypeID snowflake.ID) subscriptiondomain.Subscription {
	sub := immediateSub(userID, emailEnabled)
	sub.Frequency = subscriptiondomain.FrequencyDaily
	sub.Locations = []locationdomain.Location{{ID: locationID}}
	sub.ShockTypes = []shocktypedomain.ShockType{{ID: shockTypeID}}
	return sub
}

func TestProcessDigestQueuesPerSubscriber(t *testing.T) {
	now := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	floodID, droughtID := snowflake.ID(10), snowflake.ID(11)
	alerts := &stubAlertSource{byShockType: map[snowflake.ID][]alertdomain.Alert{
		floodID: {{ID: 500, ShockTypeID: floodID}},
	}}
	lister := &fakeSubLister{subs: []subscriptiondomain.Subscription{
		digestSub(1, true, 20, floodID),
		digestSub(2, true, 20, droughtID),
		digestSub(3, false, 20, floodID),
	}}
	enq := &fakeDigestEnqueuer{}
	d := &DigestProcessor{
		log:      zap.NewNop(),
		clock:    clock.NewFakeClock(now),
		subs:     lister,
		alerts:   alerts,
		enqueuer: enq,
	}

	queued, err := d.ProcessDigest(context.Background(), subscriptiondomain.FrequencyDaily)
	require.NoError(t, err)

	// Only user 1 has both email enabled and matching alerts in the window.
	assert.Equal(t, 1, queued)
	assert.Equal(t, []snowflake.ID{500}, enq.jobs[1])
	assert.NotContains(t, enq.jobs, snowflake.ID(2))
	assert.NotContains(t, enq.jobs, snowflake.ID(3))
	assert.Equal(t, now.Add(-24*time.Hour), alerts.seenSince)
}

func TestProcessDigestUnknownFrequency(t *testing.T) {
	d := &DigestProcessor{
		log:   zap.NewNop(),
		clock: clock.NewFakeClock(time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)),
	}
	_, err := d.ProcessDigest(context.Background(), "hourly")
	require.Error(t, err)
}
