package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, bill *Bill) error
	// FindByID returns nil without error when no bill matches within
	// the company.
	FindByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*Bill, error)
	List(ctx context.Context, db *gorm.DB, companyID snowflake.ID, filter ListFilter) ([]Bill, error)
	Delete(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) error
}
