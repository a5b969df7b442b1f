package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/vulca/internal/auth"
	"github.com/smallbiznis/vulca/internal/bill"
	"github.com/smallbiznis/vulca/internal/clock"
	"github.com/smallbiznis/vulca/internal/company"
	"github.com/smallbiznis/vulca/internal/config"
	"github.com/smallbiznis/vulca/internal/migration"
	"github.com/smallbiznis/vulca/internal/observability"
	"github.com/smallbiznis/vulca/internal/pricing"
	"github.com/smallbiznis/vulca/internal/providers"
	"github.com/smallbiznis/vulca/internal/schema"
	"github.com/smallbiznis/vulca/internal/server"
	"github.com/smallbiznis/vulca/internal/stats"
	"github.com/smallbiznis/vulca/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		providers.Module,
		auth.Module,
		company.Module,
		schema.Module,
		pricing.Module,
		bill.Module,
		stats.Module,

		server.Module,
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
