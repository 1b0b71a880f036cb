package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/labelworks/internal/clock"
	"github.com/smallbiznis/labelworks/internal/config"
	"github.com/smallbiznis/labelworks/internal/lock"
	"github.com/smallbiznis/labelworks/internal/migration"
	"github.com/smallbiznis/labelworks/internal/observability"
	"github.com/smallbiznis/labelworks/internal/server"
	"github.com/smallbiznis/labelworks/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		lock.Module,

		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.SnowflakeNode)
}
