package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

// ShockType is the category/theme classification for alerts.
type ShockType struct {
	ID       snowflake.ID `gorm:"primaryKey" json:"id"`
	Name     string       `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Icon     string       `gorm:"size:10;not null;default:📍" json:"icon"`
	Color    string       `gorm:"size:7;not null;default:#6c757d" json:"color"`
	CSSClass string       `gorm:"size:50" json:"css_class"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (ShockType) TableName() string { return "shock_types" }

// ShockTypeWithStats annotates a shock type with alert counts for the
// stats-bearing listing.
type ShockTypeWithStats struct {
	ShockType        `gorm:"embedded"`
	AlertCount       int64 `json:"alert_count"`
	ActiveAlertCount int64 `json:"active_alert_count"`
}

var cssClassStrip = regexp.MustCompile(`[^a-z0-9-]`)

// DeriveCSSClass lowercases the name, turns spaces into hyphens and strips
// everything outside [a-z0-9-]. Consecutive hyphens are kept.
func DeriveCSSClass(name string) string {
	lowered := strings.ReplaceAll(strings.ToLower(name), " ", "-")
	return cssClassStrip.ReplaceAllString(lowered, "")
}

// BackgroundCSSClass is the class used for badge backgrounds.
func (t *ShockType) BackgroundCSSClass() string {
	return "bg-" + t.CSSClass
}
