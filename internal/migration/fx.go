package migration

import (
	"github.com/smallbiznis/vulca/internal/config"
	"github.com/smallbiznis/vulca/internal/seed"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, log *zap.Logger) error {
		if cfg.DBType != "postgres" {
			log.Warn("skipping migrations for non-postgres database",
				zap.String("database_type", cfg.DBType),
			)
			return seed.EnsureSuperAdmin(conn, cfg)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		if err := RunMigrations(sqlDB); err != nil {
			return err
		}

		return seed.EnsureSuperAdmin(conn, cfg)
	}),
)
