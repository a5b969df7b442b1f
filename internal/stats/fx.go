package stats

import (
	"github.com/smallbiznis/vulca/internal/stats/service"
	"go.uber.org/fx"
)

var Module = fx.Module("stats.service",
	fx.Provide(service.New),
)
