package migration

import (
	"gorm.io/gorm"

	alertdomain "github.com/sentinel-ews/sentinel/internal/alert/domain"
	emailtemplatedomain "github.com/sentinel-ews/sentinel/internal/emailtemplate/domain"
	locationdomain "github.com/sentinel-ews/sentinel/internal/location/domain"
	notificationdomain "github.com/sentinel-ews/sentinel/internal/notification/domain"
	shocktypedomain "github.com/sentinel-ews/sentinel/internal/shocktype/domain"
	subscriptiondomain "github.com/sentinel-ews/sentinel/internal/subscription/domain"
	userdomain "github.com/sentinel-ews/sentinel/internal/user/domain"
)

// RunMigrations creates or updates the schema for every domain model so a
// fresh install is usable out of the box. Order matters for the foreign
// keys: referenced tables first.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&userdomain.User{},
		&locationdomain.AdmLevel{},
		&locationdomain.Location{},
		&shocktypedomain.ShockType{},
		&alertdomain.DataSource{},
		&alertdomain.Alert{},
		&alertdomain.UserAlert{},
		&subscriptiondomain.Subscription{},
		&notificationdomain.InternalNotification{},
		&emailtemplatedomain.EmailTemplate{},
	)
}
