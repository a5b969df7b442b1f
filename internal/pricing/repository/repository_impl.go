package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/vulca/internal/pricing/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Find(ctx context.Context, db *gorm.DB, companyID snowflake.ID) (*domain.PriceTable, error) {
	var table domain.PriceTable
	err := db.WithContext(ctx).
		Where("company_id = ?", companyID.Int64()).
		First(&table).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &table, nil
}

func (r *repo) SavePrices(ctx context.Context, db *gorm.DB, companyID snowflake.ID, prices datatypes.JSON) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "company_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"prices", "updated_at"}),
	}).Create(&domain.PriceTable{
		CompanyID: companyID,
		Prices:    prices,
		UpdatedAt: time.Now().UTC(),
	}).Error
}
