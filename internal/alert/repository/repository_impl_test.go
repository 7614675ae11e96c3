package repository

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sentinel-ews/sentinel/internal/alert/domain"
	locationdomain "github.com/sentinel-ews/sentinel/internal/location/domain"
	shocktypedomain "github.com/sentinel-ews/sentinel/internal/shocktype/domain"
	"github.com/sentinel-ews/sentinel/pkg/db"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(
		&shocktypedomain.ShockType{},
		&locationdomain.AdmLevel{},
		&locationdomain.Location{},
		&domain.DataSource{},
		&domain.Alert{},
		&domain.UserAlert{},
	))
	return gdb
}

func seedAlert(t *testing.T, gdb *gorm.DB, node *snowflake.Node) *domain.Alert {
	t.Helper()

	shockType := shocktypedomain.ShockType{ID: node.Generate(), Name: "Flood", CSSClass: "flood"}
	require.NoError(t, gdb.Create(&shockType).Error)

	source := domain.DataSource{ID: node.Generate(), Name: "field reports"}
	require.NoError(t, gdb.Create(&source).Error)

	now := time.Now().UTC()
	alert := domain.Alert{
		ID:           node.Generate(),
		Title:        "River levels rising",
		Text:         "Evacuation recommended",
		ShockTypeID:  shockType.ID,
		DataSourceID: source.ID,
		ShockDate:    now,
		Severity:     3,
		ValidFrom:    now,
		ValidUntil:   now.AddDate(0, 0, 7),
	}
	require.NoError(t, gdb.Create(&alert).Error)
	return &alert
}

func TestUpsertInteractionIdempotent(t *testing.T) {
	gdb := newTestDB(t)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	repo := Provide()
	ctx := context.Background()

	alert := seedAlert(t, gdb, node)
	userID := node.Generate()
	now := time.Now().UTC()

	setRating := func(rating int) func(*domain.UserAlert) {
		return func(ua *domain.UserAlert) {
			ua.Rating = &rating
			ua.RatingAt = &now
		}
	}

	first, err := repo.UpsertInteraction(ctx, gdb, node.Generate(), userID, alert.ID, now, setRating(4))
	require.NoError(t, err)
	require.NotNil(t, first.Rating)
	assert.Equal(t, 4, *first.Rating)

	second, err := repo.UpsertInteraction(ctx, gdb, node.Generate(), userID, alert.ID, now, setRating(2))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, *second.Rating)

	var count int64
	require.NoError(t, gdb.Model(&domain.UserAlert{}).
		Where("user_id = ? AND alert_id = ?", userID, alert.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpsertInteractionSetsReceivedAtOnCreate(t *testing.T) {
	gdb := newTestDB(t)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	repo := Provide()
	ctx := context.Background()

	alert := seedAlert(t, gdb, node)
	userID := node.Generate()
	now := time.Now().UTC()

	interaction, err := repo.UpsertInteraction(ctx, gdb, node.Generate(), userID, alert.ID, now, nil)
	require.NoError(t, err)
	require.NotNil(t, interaction.ReceivedAt)
}

func TestFindByIDsOrdersByShockDateDesc(t *testing.T) {
	gdb := newTestDB(t)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	repo := Provide()
	ctx := context.Background()

	oldest := seedAlert(t, gdb, node)

	makeAlert := func(title string, daysLater int) domain.Alert {
		alert := domain.Alert{
			ID:           node.Generate(),
			Title:        title,
			Text:         "Evacuation recommended",
			ShockTypeID:  oldest.ShockTypeID,
			DataSourceID: oldest.DataSourceID,
			ShockDate:    oldest.ShockDate.AddDate(0, 0, daysLater),
			Severity:     3,
			ValidFrom:    oldest.ValidFrom,
			ValidUntil:   oldest.ValidUntil,
		}
		require.NoError(t, gdb.Create(&alert).Error)
		return alert
	}
	newer := makeAlert("Flooding spreading south", 2)
	middle := makeAlert("Water treatment offline", 1)

	alerts, err := repo.FindByIDs(ctx, gdb, []snowflake.ID{oldest.ID, newer.ID, middle.ID})
	require.NoError(t, err)
	require.Len(t, alerts, 3)
	assert.Equal(t, newer.ID, alerts[0].ID)
	assert.Equal(t, middle.ID, alerts[1].ID)
	assert.Equal(t, oldest.ID, alerts[2].ID)
}

func TestListCreatedSinceFlatIntersection(t *testing.T) {
	gdb := newTestDB(t)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	repo := Provide()
	ctx := context.Background()

	alert := seedAlert(t, gdb, node)
	level := locationdomain.AdmLevel{ID: node.Generate(), Code: "1", Name: "State"}
	require.NoError(t, gdb.Create(&level).Error)
	loc := locationdomain.Location{ID: node.Generate(), AdmLevelID: level.ID, GeoID: "SDN001", Name: "Khartoum"}
	require.NoError(t, gdb.Create(&loc).Error)
	require.NoError(t, gdb.Model(alert).Association("Locations").Replace([]locationdomain.Location{loc}))

	since := time.Now().UTC().AddDate(0, 0, -1)

	// Direct intersection on both sets finds the alert.
	matched, err := repo.ListCreatedSince(ctx, gdb, since,
		[]snowflake.ID{loc.ID}, []snowflake.ID{alert.ShockTypeID})
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, alert.ID, matched[0].ID)

	// Disjoint shock types match nothing.
	matched, err = repo.ListCreatedSince(ctx, gdb, since,
		[]snowflake.ID{loc.ID}, []snowflake.ID{node.Generate()})
	require.NoError(t, err)
	assert.Empty(t, matched)

	// Empty sets match nothing.
	matched, err = repo.ListCreatedSince(ctx, gdb, since, nil, []snowflake.ID{alert.ShockTypeID})
	require.NoError(t, err)
	assert.Empty(t, matched)
}
