package migration

import (
	"context"

	"go.uber.org/fx"
	"gorm.io/gorm"

	emailtemplatedomain "github.com/sentinel-ews/sentinel/internal/emailtemplate/domain"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, templates emailtemplatedomain.Service) error {
		if err := RunMigrations(conn); err != nil {
			return err
		}
		return templates.SeedDefaults(context.Background())
	}),
)
