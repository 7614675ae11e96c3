package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sentinel-ews/sentinel/internal/alert/domain"
	alertrepo "github.com/sentinel-ews/sentinel/internal/alert/repository"
	"github.com/sentinel-ews/sentinel/internal/cache"
	"github.com/sentinel-ews/sentinel/internal/clock"
	locationdomain "github.com/sentinel-ews/sentinel/internal/location/domain"
	locationrepo "github.com/sentinel-ews/sentinel/internal/location/repository"
	shocktypedomain "github.com/sentinel-ews/sentinel/internal/shocktype/domain"
	userdomain "github.com/sentinel-ews/sentinel/internal/user/domain"
	"github.com/sentinel-ews/sentinel/pkg/db"
)

// prefixStore is a map-backed store with real prefix deletes, so scoped
// invalidation is exercised instead of degrading to a full flush.
type prefixStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newPrefixStore() *prefixStore {
	return &prefixStore{data: map[string][]byte{}}
}

func (s *prefixStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.data[key]
	return raw, ok, nil
}

func (s *prefixStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *prefixStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.data, key)
	}
	return nil
}

func (s *prefixStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = map[string][]byte{}
	return nil
}

func (s *prefixStore) DeleteByPrefix(_ context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.data {
		if strings.HasPrefix(key, prefix) {
			delete(s.data, key)
		}
	}
	return nil
}

func (s *prefixStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[key]
	return ok
}

type fixture struct {
	svc   domain.Service
	db    *gorm.DB
	node  *snowflake.Node
	clock *clock.FakeClock
	store *prefixStore

	user   userdomain.User
	flood  shocktypedomain.ShockType
	source domain.DataSource
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	gdb, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(
		&userdomain.User{},
		&locationdomain.AdmLevel{},
		&locationdomain.Location{},
		&shocktypedomain.ShockType{},
		&domain.DataSource{},
		&domain.Alert{},
		&domain.UserAlert{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	f := &fixture{
		db:    gdb,
		node:  node,
		clock: clock.NewFakeClock(time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)),
		store: newPrefixStore(),
	}
	f.svc = New(Params{
		DB:        gdb,
		Log:       zap.NewNop(),
		GenID:     node,
		Clock:     f.clock,
		Repo:      alertrepo.Provide(),
		Locations: locationrepo.Provide(),
		Cache:     cache.NewManager(f.store, zap.NewNop()),
	})

	f.user = userdomain.User{ID: node.Generate(), Username: "amira", Email: "amira@example.org"}
	require.NoError(t, gdb.Create(&f.user).Error)

	f.flood = shocktypedomain.ShockType{ID: node.Generate(), Name: "Flood", CSSClass: "flood"}
	require.NoError(t, gdb.Create(&f.flood).Error)

	f.source = domain.DataSource{ID: node.Generate(), Name: "field reports"}
	require.NoError(t, gdb.Create(&f.source).Error)

	return f
}

func (f *fixture) createApprovedAlert(t *testing.T) *domain.Alert {
	t.Helper()
	alert, err := f.svc.Create(context.Background(), domain.CreateAlertRequest{
		Title:        "River levels rising",
		Text:         "Evacuation recommended",
		ShockTypeID:  f.flood.ID,
		DataSourceID: f.source.ID,
		ShockDate:    f.clock.Now(),
		Severity:     3,
		GoNoGo:       true,
	})
	require.NoError(t, err)
	return alert
}

func TestSetRatingInvalidatesCachedDetail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alert := f.createApprovedAlert(t)

	// Prime the anonymous detail cache before any rating exists.
	detail, err := f.svc.GetPublicDetail(ctx, alert.ID, nil)
	require.NoError(t, err)
	assert.Zero(t, detail.AverageRating)
	assert.Zero(t, detail.RatingCount)
	require.True(t, f.store.has(cache.AlertDetailKey(alert.ID, nil)))

	_, err = f.svc.SetRating(ctx, f.user.ID, alert.ID, 5)
	require.NoError(t, err)

	assert.False(t, f.store.has(cache.AlertDetailKey(alert.ID, nil)))

	detail, err = f.svc.GetPublicDetail(ctx, alert.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 5.0, detail.AverageRating)
	assert.Equal(t, int64(1), detail.RatingCount)
}

func TestSetRatingInvalidatesOtherUsersViews(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alert := f.createApprovedAlert(t)

	other := userdomain.User{ID: f.node.Generate(), Username: "lena", Email: "lena@example.org"}
	require.NoError(t, f.db.Create(&other).Error)

	otherDetail, err := f.svc.GetPublicDetail(ctx, alert.ID, &other.ID)
	require.NoError(t, err)
	assert.Zero(t, otherDetail.AverageRating)

	_, err = f.svc.SetRating(ctx, f.user.ID, alert.ID, 4)
	require.NoError(t, err)

	otherDetail, err = f.svc.GetPublicDetail(ctx, alert.ID, &other.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, otherDetail.AverageRating)
}

func TestCreateInvalidatesShockTypeListings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	statsKey := cache.ShockTypesKey(true)
	f.store.Set(ctx, statsKey, []byte(`[]`), time.Minute)

	f.createApprovedAlert(t)

	assert.False(t, f.store.has(statsKey))
}

func TestSetRatingRejectsOutOfRange(t *testing.T) {
	f := newFixture(t)
	alert := f.createApprovedAlert(t)

	_, err := f.svc.SetRating(context.Background(), f.user.ID, alert.ID, 6)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "rating", verr.Field)
}
