package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type CreateAlertRequest struct {
	Title        string
	Text         string
	ShockTypeID  snowflake.ID
	DataSourceID snowflake.ID
	ShockDate    time.Time
	Severity     int
	// GoNoGo defaults to false; externally created alerts stay unapproved
	// until a reviewer signs off.
	GoNoGo      bool
	ValidFrom   *time.Time
	ValidUntil  *time.Time
	LocationIDs []snowflake.ID
	Metadata    datatypes.JSONMap
}

// DispatchOutcome aggregates per-channel delivery counts for one alert.
type DispatchOutcome struct {
	EmailQueued     int `json:"email_queued"`
	InternalCreated int `json:"internal_created"`
	SlackSent       int `json:"slack_sent"`
	Errors          int `json:"errors"`
}

// Dispatcher fans an alert out to its matched subscribers.
type Dispatcher interface {
	DispatchAlert(ctx context.Context, alert *Alert) DispatchOutcome
}

type AlertDetail struct {
	Alert         *Alert     `json:"alert"`
	AverageRating float64    `json:"average_rating"`
	RatingCount   int64      `json:"rating_count"`
	Interaction   *UserAlert `json:"interaction,omitempty"`
}

type Stats struct {
	Overview *StatsOverview `json:"overview"`
	User     *UserStats     `json:"user,omitempty"`
}

type Service interface {
	// Create persists a new alert and, when locations are supplied,
	// assigns them and triggers notification dispatch.
	Create(ctx context.Context, req CreateAlertRequest) (*Alert, error)
	GetByID(ctx context.Context, id snowflake.ID) (*Alert, error)
	// AssignLocations replaces the alert's location set and dispatches
	// notifications. Dispatch failure is logged, never propagated.
	AssignLocations(ctx context.Context, alertID snowflake.ID, locationIDs []snowflake.ID) (*Alert, error)
	// Approve sets the go/no-go flag, making the alert publicly visible.
	Approve(ctx context.Context, alertID snowflake.ID) (*Alert, error)

	// Read APIs gate on approval; unapproved alerts are invisible here.
	ListPublic(ctx context.Context, userID *snowflake.ID, filters Filters) ([]Alert, int64, error)
	GetPublicDetail(ctx context.Context, alertID snowflake.ID, userID *snowflake.ID) (*AlertDetail, error)
	GetStats(ctx context.Context, userID *snowflake.ID) (*Stats, error)

	// Per-user interaction state, upsert semantics throughout.
	MarkRead(ctx context.Context, userID, alertID snowflake.ID) (*UserAlert, error)
	SetRating(ctx context.Context, userID, alertID snowflake.ID, rating int) (*UserAlert, error)
	ToggleBookmark(ctx context.Context, userID, alertID snowflake.ID) (*UserAlert, error)
	ToggleFlag(ctx context.Context, userID, alertID snowflake.ID, flagType string) (*UserAlert, error)
	AddComment(ctx context.Context, userID, alertID snowflake.ID, comment string) (*UserAlert, error)
}
