package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	locationdomain "github.com/sentinel-ews/sentinel/internal/location/domain"
	shocktypedomain "github.com/sentinel-ews/sentinel/internal/shocktype/domain"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, sub *Subscription) error
	Update(ctx context.Context, db *gorm.DB, sub *Subscription) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Subscription, error)
	ListByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]Subscription, error)
	// Match returns the active subscriptions whose location set intersects
	// locationIDs and whose shock types include shockTypeID. Users are
	// preloaded for the dispatch fan-out.
	Match(ctx context.Context, db *gorm.DB, locationIDs []snowflake.ID, shockTypeID snowflake.ID) ([]Subscription, error)
	ListActiveByFrequency(ctx context.Context, db *gorm.DB, frequency string) ([]Subscription, error)
	ReplaceLocations(ctx context.Context, db *gorm.DB, sub *Subscription, locations []locationdomain.Location) error
	ReplaceShockTypes(ctx context.Context, db *gorm.DB, sub *Subscription, shockTypes []shocktypedomain.ShockType) error
}
