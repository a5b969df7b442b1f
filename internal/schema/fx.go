package schema

import (
	"github.com/smallbiznis/vulca/internal/schema/repository"
	"github.com/smallbiznis/vulca/internal/schema/service"
	"go.uber.org/fx"
)

var Module = fx.Module("schema.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
