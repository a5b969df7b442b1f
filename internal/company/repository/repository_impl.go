package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/vulca/internal/company/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, company *domain.Company) error {
	return db.WithContext(ctx).Create(company).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Company, error) {
	var company domain.Company
	err := db.WithContext(ctx).Where("id = ?", id.Int64()).First(&company).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &company, nil
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB) ([]domain.Company, error) {
	var companies []domain.Company
	if err := db.WithContext(ctx).Order("created_at ASC").Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, company *domain.Company) error {
	return db.WithContext(ctx).Save(company).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Where("id = ?", id.Int64()).Delete(&domain.Company{}).Error
}

func (r *repo) AddMember(ctx context.Context, db *gorm.DB, member *domain.CompanyUser) error {
	return db.WithContext(ctx).Create(member).Error
}

func (r *repo) FindMember(ctx context.Context, db *gorm.DB, companyID, userID snowflake.ID) (*domain.CompanyUser, error) {
	var member domain.CompanyUser
	err := db.WithContext(ctx).
		Where("company_id = ? AND user_id = ?", companyID.Int64(), userID.Int64()).
		First(&member).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

func (r *repo) FindMemberships(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]domain.CompanyUser, error) {
	var members []domain.CompanyUser
	err := db.WithContext(ctx).
		Where("user_id = ?", userID.Int64()).
		Order("created_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *repo) ListMembers(ctx context.Context, db *gorm.DB, companyID snowflake.ID) ([]domain.CompanyUser, error) {
	var members []domain.CompanyUser
	err := db.WithContext(ctx).
		Where("company_id = ?", companyID.Int64()).
		Order("created_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *repo) RemoveMember(ctx context.Context, db *gorm.DB, companyID, userID snowflake.ID) error {
	return db.WithContext(ctx).
		Where("company_id = ? AND user_id = ?", companyID.Int64(), userID.Int64()).
		Delete(&domain.CompanyUser{}).Error
}
