package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Repository interface {
	// Find returns nil without error when no price document exists yet.
	Find(ctx context.Context, db *gorm.DB, companyID snowflake.ID) (*PriceTable, error)
	// SavePrices upserts only the prices column.
	SavePrices(ctx context.Context, db *gorm.DB, companyID snowflake.ID, prices datatypes.JSON) error
}
