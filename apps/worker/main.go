package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/sentinel-ews/sentinel/internal/alert"
	"github.com/sentinel-ews/sentinel/internal/cache"
	"github.com/sentinel-ews/sentinel/internal/clock"
	"github.com/sentinel-ews/sentinel/internal/config"
	"github.com/sentinel-ews/sentinel/internal/emailtemplate"
	"github.com/sentinel-ews/sentinel/internal/jobs"
	"github.com/sentinel-ews/sentinel/internal/location"
	"github.com/sentinel-ews/sentinel/internal/observability"
	"github.com/sentinel-ews/sentinel/internal/providers/email"
	"github.com/sentinel-ews/sentinel/internal/user"
	"github.com/sentinel-ews/sentinel/pkg/db"
)

// The worker consumes the email delivery queue: per-alert emails, digest
// batches and verification mails.
func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		cache.Module,
		location.Module,
		user.Module,
		alert.Module,
		emailtemplate.Module,
		email.Module,

		jobs.WorkerModule,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(2)
	if err != nil {
		panic(err)
	}
	return node
}
