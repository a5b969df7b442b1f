package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/vulca/internal/schema/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Find(ctx context.Context, db *gorm.DB, companyID snowflake.ID) (*domain.BillSchema, error) {
	var schema domain.BillSchema
	err := db.WithContext(ctx).
		Where("company_id = ?", companyID.Int64()).
		First(&schema).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &schema, nil
}

func (r *repo) SaveSections(ctx context.Context, db *gorm.DB, companyID snowflake.ID, sections datatypes.JSON) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "company_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"sections", "updated_at"}),
	}).Create(&domain.BillSchema{
		CompanyID: companyID,
		Sections:  sections,
		UpdatedAt: time.Now().UTC(),
	}).Error
}
