package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, company *Company) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Company, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]Company, error)
	Update(ctx context.Context, db *gorm.DB, company *Company) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error

	AddMember(ctx context.Context, db *gorm.DB, member *CompanyUser) error
	FindMember(ctx context.Context, db *gorm.DB, companyID, userID snowflake.ID) (*CompanyUser, error)
	FindMemberships(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]CompanyUser, error)
	ListMembers(ctx context.Context, db *gorm.DB, companyID snowflake.ID) ([]CompanyUser, error)
	RemoveMember(ctx context.Context, db *gorm.DB, companyID, userID snowflake.ID) error
}
