package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/vulca/internal/bill/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, bill *domain.Bill) error {
	return db.WithContext(ctx).Create(bill).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*domain.Bill, error) {
	var bill domain.Bill
	err := db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID.Int64(), id.Int64()).
		First(&bill).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &bill, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, companyID snowflake.ID, filter domain.ListFilter) ([]domain.Bill, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Bill{}).
		Where("company_id = ?", companyID.Int64())

	if filter.CreatedByID != 0 {
		stmt = stmt.Where("created_by_id = ?", filter.CreatedByID.Int64())
	}
	if !filter.From.IsZero() {
		stmt = stmt.Where("created_at >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		stmt = stmt.Where("created_at < ?", filter.To)
	}

	var bills []domain.Bill
	if err := stmt.Order("created_at DESC").Find(&bills).Error; err != nil {
		return nil, err
	}
	return bills, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID.Int64(), id.Int64()).
		Delete(&domain.Bill{}).Error
}
