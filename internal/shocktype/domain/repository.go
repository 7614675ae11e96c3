package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, shockType *ShockType) error
	Update(ctx context.Context, db *gorm.DB, shockType *ShockType) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*ShockType, error)
	List(ctx context.Context, db *gorm.DB) ([]ShockType, error)
	// ListWithStats annotates each shock type with its total alert count
	// and the count of approved alerts whose validity window covers now.
	ListWithStats(ctx context.Context, db *gorm.DB, now time.Time) ([]ShockTypeWithStats, error)
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	// CountAlerts reports how many alerts reference the shock type.
	CountAlerts(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error)
}
