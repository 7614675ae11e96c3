package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sentinel-ews/sentinel/internal/emailtemplate/domain"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindActiveByName(ctx context.Context, db *gorm.DB, name string) (*domain.EmailTemplate, error) {
	var template domain.EmailTemplate
	err := db.WithContext(ctx).
		Where("name = ? AND active = ?", name, true).
		First(&template).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.EmailTemplate, error) {
	var template domain.EmailTemplate
	err := db.WithContext(ctx).First(&template, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.EmailTemplate, error) {
	var templates []domain.EmailTemplate
	err := db.WithContext(ctx).Order("name asc").Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, template *domain.EmailTemplate) error {
	return db.WithContext(ctx).Create(template).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, template *domain.EmailTemplate) error {
	return db.WithContext(ctx).Save(template).Error
}

func (r *repo) UpsertByName(ctx context.Context, db *gorm.DB, template *domain.EmailTemplate) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"description", "subject",
				"html_header", "html_footer", "html_wrapper",
				"text_header", "text_footer", "text_wrapper",
				"active", "updated_at",
			}),
		}).
		Create(template).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&domain.EmailTemplate{}, "id = ?", id).Error
}
