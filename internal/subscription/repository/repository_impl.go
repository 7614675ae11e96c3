package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	locationdomain "github.com/sentinel-ews/sentinel/internal/location/domain"
	shocktypedomain "github.com/sentinel-ews/sentinel/internal/shocktype/domain"
	"github.com/sentinel-ews/sentinel/internal/subscription/domain"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, sub *domain.Subscription) error {
	return db.WithContext(ctx).Create(sub).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, sub *domain.Subscription) error {
	return db.WithContext(ctx).Save(sub).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&domain.Subscription{}, "id = ?", id).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Subscription, error) {
	var sub domain.Subscription
	err := db.WithContext(ctx).
		Preload("Locations").
		Preload("ShockTypes").
		First(&sub, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *repo) ListByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]domain.Subscription, error) {
	var subs []domain.Subscription
	err := db.WithContext(ctx).
		Preload("Locations").
		Preload("ShockTypes").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *repo) Match(ctx context.Context, db *gorm.DB, locationIDs []snowflake.ID, shockTypeID snowflake.ID) ([]domain.Subscription, error) {
	if len(locationIDs) == 0 {
		return nil, nil
	}

	var subs []domain.Subscription
	err := db.WithContext(ctx).
		Distinct("subscriptions.*").
		Joins("JOIN subscription_locations ON subscription_locations.subscription_id = subscriptions.id").
		Joins("JOIN subscription_shock_types ON subscription_shock_types.subscription_id = subscriptions.id").
		Where("subscriptions.active = ?", true).
		Where("subscription_locations.location_id IN ?", locationIDs).
		Where("subscription_shock_types.shock_type_id = ?", shockTypeID).
		Preload("User").
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *repo) ListActiveByFrequency(ctx context.Context, db *gorm.DB, frequency string) ([]domain.Subscription, error) {
	var subs []domain.Subscription
	err := db.WithContext(ctx).
		Where("active = ? AND frequency = ?", true, frequency).
		Preload("User").
		Preload("Locations").
		Preload("ShockTypes").
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *repo) ReplaceLocations(ctx context.Context, db *gorm.DB, sub *domain.Subscription, locations []locationdomain.Location) error {
	return db.WithContext(ctx).Model(sub).Association("Locations").Replace(locations)
}

func (r *repo) ReplaceShockTypes(ctx context.Context, db *gorm.DB, sub *domain.Subscription, shockTypes []shocktypedomain.ShockType) error {
	return db.WithContext(ctx).Model(sub).Association("ShockTypes").Replace(shockTypes)
}
