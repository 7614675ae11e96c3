package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/sentinel-ews/sentinel/internal/alert"
	"github.com/sentinel-ews/sentinel/internal/cache"
	"github.com/sentinel-ews/sentinel/internal/clock"
	"github.com/sentinel-ews/sentinel/internal/config"
	"github.com/sentinel-ews/sentinel/internal/jobs"
	"github.com/sentinel-ews/sentinel/internal/location"
	"github.com/sentinel-ews/sentinel/internal/notification"
	"github.com/sentinel-ews/sentinel/internal/notify"
	"github.com/sentinel-ews/sentinel/internal/observability"
	"github.com/sentinel-ews/sentinel/internal/providers/slack"
	"github.com/sentinel-ews/sentinel/internal/scheduler"
	"github.com/sentinel-ews/sentinel/internal/subscription"
	"github.com/sentinel-ews/sentinel/pkg/db"
)

// The scheduler fires the digest cycles and sweeps expired feed entries.
// It queues work; the worker delivers it. No server module.
func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		cache.Module,
		location.Module,
		alert.Module,
		subscription.Module,
		notification.Module,
		slack.Module,
		jobs.ClientModule,
		notify.Module,

		scheduler.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(3)
	if err != nil {
		panic(err)
	}
	return node
}
