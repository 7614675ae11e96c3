package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"

	locationdomain "github.com/sentinel-ews/sentinel/internal/location/domain"
	shocktypedomain "github.com/sentinel-ews/sentinel/internal/shocktype/domain"
	userdomain "github.com/sentinel-ews/sentinel/internal/user/domain"
)

const (
	FrequencyImmediate = "immediate"
	FrequencyDaily     = "daily"
	FrequencyWeekly    = "weekly"
	FrequencyMonthly   = "monthly"
)

// MethodEmail is the only delivery method today.
const MethodEmail = "email"

var validFrequencies = map[string]bool{
	FrequencyImmediate: true,
	FrequencyDaily:     true,
	FrequencyWeekly:    true,
	FrequencyMonthly:   true,
}

func IsValidFrequency(frequency string) bool {
	return validFrequencies[frequency]
}

// DigestFrequencies lists the batched cadences, in scheduling order.
var DigestFrequencies = []string{FrequencyDaily, FrequencyWeekly, FrequencyMonthly}

// Subscription is a user's standing alert filter: locations x shock types
// x frequency. Disabled via active=false rather than deleted.
type Subscription struct {
	ID     snowflake.ID    `gorm:"primaryKey" json:"id"`
	UserID snowflake.ID    `gorm:"index;not null" json:"user_id"`
	User   userdomain.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	Locations  []locationdomain.Location   `gorm:"many2many:subscription_locations" json:"locations,omitempty"`
	ShockTypes []shocktypedomain.ShockType `gorm:"many2many:subscription_shock_types" json:"shock_types,omitempty"`

	Active    bool   `gorm:"not null;default:true" json:"active"`
	Method    string `gorm:"size:20;not null;default:email" json:"method"`
	Frequency string `gorm:"size:20;not null;default:immediate" json:"frequency"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Subscription) TableName() string { return "subscriptions" }
