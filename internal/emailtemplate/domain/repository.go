package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var (
	ErrNotFound    = errors.New("not_found")
	ErrInvalidName = errors.New("invalid_name")
)

type Repository interface {
	// FindActiveByName returns nil, nil when no active template exists by
	// that name. Callers fall back to the hardcoded templates.
	FindActiveByName(ctx context.Context, db *gorm.DB, name string) (*EmailTemplate, error)
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*EmailTemplate, error)
	List(ctx context.Context, db *gorm.DB) ([]EmailTemplate, error)
	Insert(ctx context.Context, db *gorm.DB, template *EmailTemplate) error
	Update(ctx context.Context, db *gorm.DB, template *EmailTemplate) error
	// UpsertByName creates the template or replaces the row with the same
	// name. Seeding uses it to stay idempotent.
	UpsertByName(ctx context.Context, db *gorm.DB, template *EmailTemplate) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
