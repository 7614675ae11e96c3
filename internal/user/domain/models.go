package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// User carries the account plus its notification profile. The email master
// switch defaults to off so nobody gets mailed without opting in.
type User struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Username  string       `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email     string       `gorm:"size:254;uniqueIndex;not null" json:"email"`
	FirstName string       `gorm:"size:150" json:"first_name"`
	LastName  string       `gorm:"size:150" json:"last_name"`
	IsStaff   bool         `gorm:"not null;default:false" json:"is_staff"`

	EmailNotificationsEnabled bool       `gorm:"not null;default:false" json:"email_notifications_enabled"`
	EmailVerified             bool       `gorm:"not null;default:false" json:"email_verified"`
	EmailVerificationToken    string     `gorm:"size:100;index" json:"-"`
	EmailVerificationSentAt   *time.Time `json:"email_verification_sent_at,omitempty"`

	PreferredLanguage string `gorm:"size:5;not null;default:en" json:"preferred_language"`
	Timezone          string `gorm:"size:50;not null;default:UTC" json:"timezone"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (User) TableName() string { return "users" }

// CanReceiveEmails reports whether delivery tasks may email this user.
func (u *User) CanReceiveEmails() bool {
	return u.EmailNotificationsEnabled && u.EmailVerified && u.Email != ""
}

// DisplayName is used as the salutation in rendered emails.
func (u *User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return "Subscriber"
}
