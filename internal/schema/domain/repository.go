package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Repository interface {
	// Find returns nil without error when no schema document exists yet.
	Find(ctx context.Context, db *gorm.DB, companyID snowflake.ID) (*BillSchema, error)
	// SaveSections upserts only the sections column, leaving sibling
	// columns of an existing row untouched.
	SaveSections(ctx context.Context, db *gorm.DB, companyID snowflake.ID, sections datatypes.JSON) error
}
