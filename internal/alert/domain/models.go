package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"

	locationdomain "github.com/sentinel-ews/sentinel/internal/location/domain"
	shocktypedomain "github.com/sentinel-ews/sentinel/internal/shocktype/domain"
)

// DataSource is the origin feed an alert was ingested from. Alerts keep a
// delete-protected reference to it.
type DataSource struct {
	ID   snowflake.ID `gorm:"primaryKey" json:"id"`
	Name string       `gorm:"size:100;uniqueIndex;not null" json:"name"`
	URL  string       `gorm:"size:255" json:"url"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (DataSource) TableName() string { return "data_sources" }

// Alert is the core notification unit.
type Alert struct {
	ID    snowflake.ID `gorm:"primaryKey" json:"id"`
	Title string       `gorm:"size:255;not null" json:"title"`
	Text  string       `gorm:"type:text;not null" json:"text"`

	ShockTypeID  snowflake.ID              `gorm:"index;not null" json:"shock_type_id"`
	ShockType    shocktypedomain.ShockType `gorm:"foreignKey:ShockTypeID;constraint:OnDelete:RESTRICT" json:"shock_type"`
	DataSourceID snowflake.ID              `gorm:"index;not null" json:"data_source_id"`
	DataSource   DataSource                `gorm:"foreignKey:DataSourceID;constraint:OnDelete:RESTRICT" json:"data_source"`

	ShockDate time.Time `gorm:"not null" json:"shock_date"`
	Severity  int       `gorm:"not null;default:1" json:"severity"`

	// GoNoGo gates public visibility, not notification delivery.
	GoNoGo     bool       `gorm:"not null;default:false" json:"go_no_go"`
	GoNoGoDate *time.Time `json:"go_no_go_date,omitempty"`

	ValidFrom  time.Time `gorm:"not null" json:"valid_from"`
	ValidUntil time.Time `gorm:"not null" json:"valid_until"`

	Locations []locationdomain.Location `gorm:"many2many:alert_locations" json:"locations,omitempty"`
	Metadata  datatypes.JSONMap         `json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Alert) TableName() string { return "alerts" }

// IsActive reports whether now falls within the alert's validity window.
func (a *Alert) IsActive(now time.Time) bool {
	return !now.Before(a.ValidFrom) && !now.After(a.ValidUntil)
}

var severityLabels = map[int]string{
	1: "Low",
	2: "Moderate",
	3: "High",
	4: "Severe",
	5: "Critical",
}

// SeverityDisplay is the human label for the 1..5 severity scale.
func (a *Alert) SeverityDisplay() string {
	if label, ok := severityLabels[a.Severity]; ok {
		return label
	}
	return "Unknown"
}

// UserAlert captures one user's interaction state with one alert. The
// (user, alert) pair is unique and every write goes through an upsert.
type UserAlert struct {
	ID      snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID  snowflake.ID `gorm:"uniqueIndex:idx_user_alert;not null" json:"user_id"`
	AlertID snowflake.ID `gorm:"uniqueIndex:idx_user_alert;not null" json:"alert_id"`
	Alert   Alert        `gorm:"foreignKey:AlertID;constraint:OnDelete:CASCADE" json:"-"`

	ReceivedAt *time.Time `json:"received_at,omitempty"`
	ReadAt     *time.Time `json:"read_at,omitempty"`

	Rating   *int       `json:"rating,omitempty"`
	RatingAt *time.Time `json:"rating_at,omitempty"`

	FlagFalse      bool   `gorm:"not null;default:false" json:"flag_false"`
	FlagIncomplete bool   `gorm:"not null;default:false" json:"flag_incomplete"`
	Comment        string `gorm:"type:text" json:"comment"`
	Bookmarked     bool   `gorm:"not null;default:false" json:"bookmarked"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (UserAlert) TableName() string { return "user_alerts" }

func (ua *UserAlert) IsRead() bool  { return ua.ReadAt != nil }
func (ua *UserAlert) IsRated() bool { return ua.Rating != nil }

// IsFlagged reports whether the user flagged the alert for any reason.
func (ua *UserAlert) IsFlagged() bool { return ua.FlagFalse || ua.FlagIncomplete }
