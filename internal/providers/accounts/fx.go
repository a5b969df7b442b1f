package accounts

import "go.uber.org/fx"

var Module = fx.Module("providers.accounts",
	fx.Provide(func() Deleter { return NoOpDeleter{} }),
)
