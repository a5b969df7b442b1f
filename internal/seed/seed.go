package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/smallbiznis/vulca/internal/auth/domain"
	"github.com/smallbiznis/vulca/internal/auth/password"
	"github.com/smallbiznis/vulca/internal/config"
	"gorm.io/gorm"
)

const (
	defaultAdminEmail    = "admin@vulca.local"
	defaultAdminPassword = "admin"
	defaultAdminDisplay  = "Vulca Admin"
)

// EnsureSuperAdmin seeds the bootstrap superadmin when the users table is
// empty. Email and password come from SEED_ADMIN_* when set.
func EnsureSuperAdmin(db *gorm.DB, cfg config.Config) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	email := strings.ToLower(strings.TrimSpace(cfg.SeedAdminEmail))
	if email == "" {
		email = defaultAdminEmail
	}
	plain := cfg.SeedAdminPassword
	if plain == "" {
		plain = defaultAdminPassword
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.WithContext(ctx).Model(&authdomain.User{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		hashed, err := password.Hash(plain)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		user := authdomain.User{
			ID:           node.Generate(),
			Email:        email,
			DisplayName:  defaultAdminDisplay,
			Role:         authdomain.RoleSuperAdmin,
			PasswordHash: &hashed,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return tx.WithContext(ctx).Create(&user).Error
	})
}
