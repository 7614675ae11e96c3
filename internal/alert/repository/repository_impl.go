package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sentinel-ews/sentinel/internal/alert/domain"
	locationdomain "github.com/sentinel-ews/sentinel/internal/location/domain"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, alert *domain.Alert) error {
	return db.WithContext(ctx).Create(alert).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, alert *domain.Alert) error {
	return db.WithContext(ctx).Save(alert).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&domain.Alert{}, "id = ?", id).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Alert, error) {
	var alert domain.Alert
	err := db.WithContext(ctx).
		Preload("ShockType").
		Preload("DataSource").
		Preload("Locations").
		First(&alert, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &alert, nil
}

func (r *repo) FindByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]domain.Alert, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var alerts []domain.Alert
	err := db.WithContext(ctx).
		Preload("ShockType").
		Preload("Locations").
		Where("id IN ?", ids).
		Order("shock_date desc").
		Find(&alerts).Error
	if err != nil {
		return nil, err
	}
	return alerts, nil
}

func (r *repo) ListApproved(ctx context.Context, db *gorm.DB, now time.Time, filters domain.Filters) ([]domain.Alert, int64, error) {
	query := db.WithContext(ctx).
		Model(&domain.Alert{}).
		Where("go_no_go = ?", true)

	if filters.ShockTypeID != nil {
		query = query.Where("shock_type_id = ?", *filters.ShockTypeID)
	}
	if filters.Severity != nil {
		query = query.Where("severity = ?", *filters.Severity)
	}
	if filters.ActiveOnly {
		query = query.Where("valid_from <= ? AND valid_until >= ?", now, now)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var alerts []domain.Alert
	err := query.
		Preload("ShockType").
		Preload("DataSource").
		Preload("Locations").
		Order("created_at desc").
		Find(&alerts).Error
	if err != nil {
		return nil, 0, err
	}
	return alerts, total, nil
}

func (r *repo) ReplaceLocations(ctx context.Context, db *gorm.DB, alert *domain.Alert, locations []locationdomain.Location) error {
	return db.WithContext(ctx).Model(alert).Association("Locations").Replace(locations)
}

func (r *repo) ListCreatedSince(ctx context.Context, db *gorm.DB, since time.Time, locationIDs, shockTypeIDs []snowflake.ID) ([]domain.Alert, error) {
	if len(locationIDs) == 0 || len(shockTypeIDs) == 0 {
		return nil, nil
	}

	var alerts []domain.Alert
	err := db.WithContext(ctx).
		Distinct("alerts.*").
		Joins("JOIN alert_locations ON alert_locations.alert_id = alerts.id").
		Where("alerts.created_at >= ?", since).
		Where("alert_locations.location_id IN ?", locationIDs).
		Where("alerts.shock_type_id IN ?", shockTypeIDs).
		Preload("ShockType").
		Preload("Locations").
		Find(&alerts).Error
	if err != nil {
		return nil, err
	}
	return alerts, nil
}

func (r *repo) CollectStats(ctx context.Context, db *gorm.DB, now time.Time) (*domain.StatsOverview, error) {
	approved := func() *gorm.DB {
		return db.WithContext(ctx).Model(&domain.Alert{}).Where("go_no_go = ?", true)
	}

	stats := &domain.StatsOverview{}

	if err := approved().Count(&stats.TotalAlerts).Error; err != nil {
		return nil, err
	}
	if err := approved().
		Where("valid_from <= ? AND valid_until >= ?", now, now).
		Count(&stats.ActiveAlerts).Error; err != nil {
		return nil, err
	}
	if err := approved().
		Where("created_at >= ?", now.AddDate(0, 0, -30)).
		Count(&stats.Recent30Days).Error; err != nil {
		return nil, err
	}
	if err := approved().
		Where("created_at >= ?", now.AddDate(0, 0, -7)).
		Count(&stats.Recent7Days).Error; err != nil {
		return nil, err
	}

	if err := approved().
		Select("severity, count(*) as count").
		Group("severity").
		Order("severity asc").
		Scan(&stats.BySeverity).Error; err != nil {
		return nil, err
	}

	if err := approved().
		Select("shock_types.name as shock_type_name, count(*) as count").
		Joins("JOIN shock_types ON shock_types.id = alerts.shock_type_id").
		Group("shock_types.name").
		Order("count desc").
		Scan(&stats.ByShockType).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *repo) CollectUserStats(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*domain.UserStats, error) {
	stats := &domain.UserStats{}

	err := db.WithContext(ctx).
		Model(&domain.UserAlert{}).
		Where("user_id = ? AND bookmarked = ?", userID, true).
		Count(&stats.Bookmarks).Error
	if err != nil {
		return nil, err
	}

	err = db.WithContext(ctx).
		Model(&domain.UserAlert{}).
		Where("user_id = ? AND rating IS NOT NULL", userID).
		Count(&stats.Ratings).Error
	if err != nil {
		return nil, err
	}

	err = db.WithContext(ctx).
		Table("subscriptions").
		Where("user_id = ? AND active = ?", userID, true).
		Count(&stats.Subscriptions).Error
	if err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *repo) UpsertInteraction(ctx context.Context, db *gorm.DB, newID snowflake.ID, userID, alertID snowflake.ID, now time.Time, mutate func(*domain.UserAlert)) (*domain.UserAlert, error) {
	var result *domain.UserAlert

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		receivedAt := now
		row := domain.UserAlert{
			ID:         newID,
			UserID:     userID,
			AlertID:    alertID,
			ReceivedAt: &receivedAt,
		}
		// Concurrent creators race on the unique (user_id, alert_id)
		// index; the loser's insert becomes a no-op.
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "alert_id"}},
			DoNothing: true,
		}).Create(&row).Error; err != nil {
			return err
		}

		var current domain.UserAlert
		if err := tx.Where("user_id = ? AND alert_id = ?", userID, alertID).
			First(&current).Error; err != nil {
			return err
		}

		if mutate != nil {
			mutate(&current)
		}
		if err := tx.Save(&current).Error; err != nil {
			return err
		}

		result = &current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *repo) FindInteraction(ctx context.Context, db *gorm.DB, userID, alertID snowflake.ID) (*domain.UserAlert, error) {
	var interaction domain.UserAlert
	err := db.WithContext(ctx).
		Where("user_id = ? AND alert_id = ?", userID, alertID).
		First(&interaction).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &interaction, nil
}

func (r *repo) AverageRating(ctx context.Context, db *gorm.DB, alertID snowflake.ID) (float64, int64, error) {
	var row struct {
		Avg   float64
		Count int64
	}
	err := db.WithContext(ctx).
		Model(&domain.UserAlert{}).
		Select("COALESCE(AVG(rating), 0) as avg, COUNT(rating) as count").
		Where("alert_id = ? AND rating IS NOT NULL", alertID).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.Avg, row.Count, nil
}
