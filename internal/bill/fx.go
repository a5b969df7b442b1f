package bill

import (
	"github.com/smallbiznis/vulca/internal/bill/render"
	"github.com/smallbiznis/vulca/internal/bill/repository"
	"github.com/smallbiznis/vulca/internal/bill/service"
	"github.com/smallbiznis/vulca/internal/printguard"
	"go.uber.org/fx"
)

var Module = fx.Module("bill.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
	fx.Provide(printguard.Provide),
	fx.Provide(render.New),
)
