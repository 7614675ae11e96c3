package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"

	alertdomain "github.com/sentinel-ews/sentinel/internal/alert/domain"
)

// Notification types.
const (
	TypeAlert        = "alert"
	TypeSystem       = "system"
	TypeUpdate       = "update"
	TypeFeedback     = "feedback"
	TypeSubscription = "subscription"
)

// Priority levels.
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// InternalNotification is an in-app feed entry. Rows cascade away with
// their user or alert.
type InternalNotification struct {
	ID     snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID snowflake.ID `gorm:"index:idx_notif_user_read;index:idx_notif_user_created;not null" json:"user_id"`

	Type     string `gorm:"size:20;not null;default:alert;index:idx_notif_type_priority" json:"type"`
	Priority string `gorm:"size:10;not null;default:normal;index:idx_notif_type_priority" json:"priority"`

	Title   string `gorm:"size:255;not null" json:"title"`
	Message string `gorm:"type:text;not null" json:"message"`

	AlertID *snowflake.ID      `gorm:"index" json:"alert_id,omitempty"`
	Alert   *alertdomain.Alert `gorm:"foreignKey:AlertID;constraint:OnDelete:CASCADE" json:"-"`

	Read   bool       `gorm:"not null;default:false;index:idx_notif_user_read" json:"read"`
	ReadAt *time.Time `json:"read_at,omitempty"`

	ActionURL  string `gorm:"size:500" json:"action_url"`
	ActionText string `gorm:"size:100" json:"action_text"`

	CreatedAt time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP;index:idx_notif_user_created" json:"created_at"`
	ExpiresAt *time.Time `gorm:"index" json:"expires_at,omitempty"`
}

func (InternalNotification) TableName() string { return "internal_notifications" }

func (n *InternalNotification) IsExpired(now time.Time) bool {
	return n.ExpiresAt != nil && now.After(*n.ExpiresAt)
}

// PriorityForSeverity maps alert severity to feed priority. Severe and
// critical alerts surface as high priority.
func PriorityForSeverity(severity int) string {
	if severity >= 4 {
		return PriorityHigh
	}
	return PriorityNormal
}
