package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	alertdomain "github.com/sentinel-ews/sentinel/internal/alert/domain"
	"github.com/sentinel-ews/sentinel/internal/cache"
	locationdomain "github.com/sentinel-ews/sentinel/internal/location/domain"
	locationrepo "github.com/sentinel-ews/sentinel/internal/location/repository"
	shocktypedomain "github.com/sentinel-ews/sentinel/internal/shocktype/domain"
	"github.com/sentinel-ews/sentinel/internal/subscription/domain"
	"github.com/sentinel-ews/sentinel/internal/subscription/repository"
	userdomain "github.com/sentinel-ews/sentinel/internal/user/domain"
	"github.com/sentinel-ews/sentinel/pkg/db"
)

type fixture struct {
	svc  domain.Service
	db   *gorm.DB
	node *snowflake.Node

	country locationdomain.Location
	state   locationdomain.Location
	city    locationdomain.Location
	flood   shocktypedomain.ShockType
	drought shocktypedomain.ShockType
	user    userdomain.User
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
		&domain.Subscription{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	f := &fixture{db: gdb, node: node}
	f.svc = New(Params{
		DB:        gdb,
		Log:       zap.NewNop(),
		GenID:     node,
		Repo:      repository.Provide(),
		Locations: locationrepo.Provide(),
		Cache:     cache.NewManager(cache.NewMemoryStore(), zap.NewNop()),
	})

	level := locationdomain.AdmLevel{ID: node.Generate(), Code: "0", Name: "Country"}
	require.NoError(t, gdb.Create(&level).Error)

	f.country = locationdomain.Location{ID: node.Generate(), AdmLevelID: level.ID, GeoID: "SD", Name: "Sudan"}
	require.NoError(t, gdb.Create(&f.country).Error)

	f.state = locationdomain.Location{ID: node.Generate(), ParentID: &f.country.ID, AdmLevelID: level.ID, GeoID: "SD_001", Name: "Khartoum State"}
	require.NoError(t, gdb.Create(&f.state).Error)

	f.city = locationdomain.Location{ID: node.Generate(), ParentID: &f.state.ID, AdmLevelID: level.ID, GeoID: "SD_001_001", Name: "Khartoum"}
	require.NoError(t, gdb.Create(&f.city).Error)

	f.flood = shocktypedomain.ShockType{ID: node.Generate(), Name: "Flood", CSSClass: "flood"}
	require.NoError(t, gdb.Create(&f.flood).Error)

	f.drought = shocktypedomain.ShockType{ID: node.Generate(), Name: "Drought", CSSClass: "drought"}
	require.NoError(t, gdb.Create(&f.drought).Error)

	f.user = userdomain.User{ID: node.Generate(), Username: "amina", Email: "amina@example.org"}
	require.NoError(t, gdb.Create(&f.user).Error)

	return f
}

func (f *fixture) subscribe(t *testing.T, locationIDs, shockTypeIDs []snowflake.ID) *domain.Subscription {
	t.Helper()
	sub, err := f.svc.Create(context.Background(), domain.CreateSubscriptionRequest{
		UserID:       f.user.ID,
		LocationIDs:  locationIDs,
		ShockTypeIDs: shockTypeIDs,
		Frequency:    domain.FrequencyImmediate,
	})
	require.NoError(t, err)
	return sub
}

func (f *fixture) cityAlert(shockType shocktypedomain.ShockType) *alertdomain.Alert {
	return &alertdomain.Alert{
		ID:          f.node.Generate(),
		Title:       "River levels rising",
		ShockTypeID: shockType.ID,
		Locations:   []locationdomain.Location{f.city},
	}
}

func TestMatchWalksLocationHierarchy(t *testing.T) {
	f := newFixture(t)

	// Subscribed at state level; the alert is city level.
	sub := f.subscribe(t, []snowflake.ID{f.state.ID}, []snowflake.ID{f.flood.ID})

	matched, err := f.svc.Match(context.Background(), f.cityAlert(f.flood))
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, sub.ID, matched[0].ID)
}

func TestMatchRequiresShockTypeIntersection(t *testing.T) {
	f := newFixture(t)

	f.subscribe(t, []snowflake.ID{f.state.ID}, []snowflake.ID{f.drought.ID})

	matched, err := f.svc.Match(context.Background(), f.cityAlert(f.flood))
	require.NoError(t, err)
	assert.Empty(t, matched)
}

func TestMatchSkipsInactiveSubscriptions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sub := f.subscribe(t, []snowflake.ID{f.city.ID}, []snowflake.ID{f.flood.ID})

	inactive := false
	_, err := f.svc.Update(ctx, domain.UpdateSubscriptionRequest{
		ID:     sub.ID,
		UserID: f.user.ID,
		Active: &inactive,
	})
	require.NoError(t, err)

	matched, err := f.svc.Match(ctx, f.cityAlert(f.flood))
	require.NoError(t, err)
	assert.Empty(t, matched)
}

func TestMatchAlertWithoutLocationsMatchesNothing(t *testing.T) {
	f := newFixture(t)

	f.subscribe(t, []snowflake.ID{f.state.ID}, []snowflake.ID{f.flood.ID})

	alert := f.cityAlert(f.flood)
	alert.Locations = nil

	matched, err := f.svc.Match(context.Background(), alert)
	require.NoError(t, err)
	assert.Empty(t, matched)
}

func TestMatchEmptySubscriptionSetsNeverMatch(t *testing.T) {
	f := newFixture(t)

	// No locations on the subscription means it can never intersect.
	f.subscribe(t, nil, []snowflake.ID{f.flood.ID})

	matched, err := f.svc.Match(context.Background(), f.cityAlert(f.flood))
	require.NoError(t, err)
	assert.Empty(t, matched)
}

func TestUpdateRejectsNonOwner(t *testing.T) {
	f := newFixture(t)

	sub := f.subscribe(t, []snowflake.ID{f.city.ID}, []snowflake.ID{f.flood.ID})

	other := f.node.Generate()
	_, err := f.svc.Update(context.Background(), domain.UpdateSubscriptionRequest{
		ID:     sub.ID,
		UserID: other,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreateRejectsUnknownFrequency(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), domain.CreateSubscriptionRequest{
		UserID:    f.user.ID,
		Frequency: "hourly",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidFrequency)
}
