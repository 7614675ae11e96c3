package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/sentinel-ews/sentinel/internal/shocktype/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, shockType *domain.ShockType) error {
	return db.WithContext(ctx).Create(shockType).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, shockType *domain.ShockType) error {
	return db.WithContext(ctx).Save(shockType).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.ShockType, error) {
	var shockType domain.ShockType
	err := db.WithContext(ctx).First(&shockType, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &shockType, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.ShockType, error) {
	var shockTypes []domain.ShockType
	err := db.WithContext(ctx).Order("name asc").Find(&shockTypes).Error
	if err != nil {
		return nil, err
	}
	return shockTypes, nil
}

func (r *repo) ListWithStats(ctx context.Context, db *gorm.DB, now time.Time) ([]domain.ShockTypeWithStats, error) {
	var rows []domain.ShockTypeWithStats
	err := db.WithContext(ctx).
		Model(&domain.ShockType{}).
		Select(`shock_types.*,
			(SELECT COUNT(*) FROM alerts WHERE alerts.shock_type_id = shock_types.id) AS alert_count,
			(SELECT COUNT(*) FROM alerts WHERE alerts.shock_type_id = shock_types.id
				AND alerts.go_no_go = ? AND alerts.valid_from <= ? AND alerts.valid_until >= ?) AS active_alert_count`,
			true, now, now).
		Order("name asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&domain.ShockType{}, "id = ?", id).Error
}

func (r *repo) CountAlerts(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Table("alerts").
		Where("shock_type_id = ?", id).
		Count(&count).Error
	return count, err
}
