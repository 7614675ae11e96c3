package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	locationdomain "github.com/sentinel-ews/sentinel/internal/location/domain"
)

// Filters narrow the approved alert listing.
type Filters struct {
	ShockTypeID *snowflake.ID
	Severity    *int
	ActiveOnly  bool
	Limit       int
	Offset      int
}

type SeverityCount struct {
	Severity int   `json:"severity"`
	Count    int64 `json:"count"`
}

type ShockTypeCount struct {
	ShockTypeName string `json:"shock_type_name"`
	Count         int64  `json:"count"`
}

// StatsOverview aggregates over approved alerts only.
type StatsOverview struct {
	TotalAlerts  int64            `json:"total_alerts"`
	ActiveAlerts int64            `json:"active_alerts"`
	Recent30Days int64            `json:"recent_30_days"`
	Recent7Days  int64            `json:"recent_7_days"`
	BySeverity   []SeverityCount  `json:"by_severity"`
	ByShockType  []ShockTypeCount `json:"by_shock_type"`
}

type UserStats struct {
	Bookmarks     int64 `json:"bookmarks"`
	Ratings       int64 `json:"ratings"`
	Subscriptions int64 `json:"subscriptions"`
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, alert *Alert) error
	Update(ctx context.Context, db *gorm.DB, alert *Alert) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	// FindByID preloads shock type, data source and locations. Returns
	// nil, nil when absent.
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Alert, error)
	FindByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]Alert, error)
	// ListApproved returns approved alerts plus the unpaginated total.
	ListApproved(ctx context.Context, db *gorm.DB, now time.Time, filters Filters) ([]Alert, int64, error)
	ReplaceLocations(ctx context.Context, db *gorm.DB, alert *Alert, locations []locationdomain.Location) error
	// ListCreatedSince returns alerts created in the window whose location
	// and shock-type sets directly intersect the given sets. Digest
	// matching is flat, it does not walk the location hierarchy.
	ListCreatedSince(ctx context.Context, db *gorm.DB, since time.Time, locationIDs, shockTypeIDs []snowflake.ID) ([]Alert, error)
	CollectStats(ctx context.Context, db *gorm.DB, now time.Time) (*StatsOverview, error)
	CollectUserStats(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*UserStats, error)

	// UpsertInteraction gets or creates the (user, alert) row, applies
	// mutate to the current state and saves. The unique constraint makes
	// concurrent calls converge on a single row.
	UpsertInteraction(ctx context.Context, db *gorm.DB, newID snowflake.ID, userID, alertID snowflake.ID, now time.Time, mutate func(*UserAlert)) (*UserAlert, error)
	FindInteraction(ctx context.Context, db *gorm.DB, userID, alertID snowflake.ID) (*UserAlert, error)
	AverageRating(ctx context.Context, db *gorm.DB, alertID snowflake.ID) (avg float64, count int64, err error)
}
