package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/sentinel-ews/sentinel/internal/clock"
	"github.com/sentinel-ews/sentinel/internal/config"
	"github.com/sentinel-ews/sentinel/internal/migration"
	"github.com/sentinel-ews/sentinel/internal/observability"
	"github.com/sentinel-ews/sentinel/internal/server"
	"github.com/sentinel-ews/sentinel/pkg/db"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		// server.Module pulls in the domain modules, the cache, the
		// delivery providers and the queue client.
		server.Module,
		migration.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
