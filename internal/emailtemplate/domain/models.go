package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Known template names. The name column is a closed set.
const (
	TemplateIndividualAlert     = "individual_alert"
	TemplateDailyDigest         = "daily_digest"
	TemplateWeeklyDigest        = "weekly_digest"
	TemplateMonthlyDigest       = "monthly_digest"
	TemplateSubscriptionConfirm = "subscription_confirm"
	TemplateEmailVerification   = "email_verification"
)

// KnownTemplateNames lists every valid template name.
var KnownTemplateNames = []string{
	TemplateIndividualAlert,
	TemplateDailyDigest,
	TemplateWeeklyDigest,
	TemplateMonthlyDigest,
	TemplateSubscriptionConfirm,
	TemplateEmailVerification,
}

func IsKnownTemplateName(name string) bool {
	for _, known := range KnownTemplateNames {
		if name == known {
			return true
		}
	}
	return false
}

// EmailTemplate is a database-stored email template. When a wrapper is set
// it supplies the full document; otherwise the header and footer are
// rendered separately and the alert content is spliced between them.
type EmailTemplate struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Description string       `gorm:"type:text" json:"description"`

	Subject string `gorm:"size:255;not null" json:"subject"`

	HTMLHeader  string `gorm:"type:text" json:"html_header"`
	HTMLFooter  string `gorm:"type:text" json:"html_footer"`
	HTMLWrapper string `gorm:"type:text" json:"html_wrapper"`

	TextHeader  string `gorm:"type:text" json:"text_header"`
	TextFooter  string `gorm:"type:text" json:"text_footer"`
	TextWrapper string `gorm:"type:text" json:"text_wrapper"`

	Active bool `gorm:"not null;default:true" json:"active"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (EmailTemplate) TableName() string { return "email_templates" }
