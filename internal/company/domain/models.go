package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Company is one vehicle-service business. SelectedTemplate names the
// print template used for its work orders.
type Company struct {
	ID               snowflake.ID `json:"id" gorm:"column:id;primaryKey"`
	Name             string       `json:"name" gorm:"column:name;not null"`
	Address          string       `json:"address" gorm:"column:address"`
	Phone            string       `json:"phone" gorm:"column:phone"`
	Email            string       `json:"email" gorm:"column:email"`
	CIF              string       `json:"cif" gorm:"column:cif"`
	SelectedTemplate string       `json:"selectedTemplate" gorm:"column:selected_template"`
	CreatedAt        time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt        time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Company) TableName() string { return "companies" }

// CompanyUser is one membership of a user in a company, with the role
// the user holds inside that company.
type CompanyUser struct {
	CompanyID snowflake.ID `json:"company_id" gorm:"column:company_id;primaryKey"`
	UserID    snowflake.ID `json:"user_id" gorm:"column:user_id;primaryKey"`
	Role      string       `json:"role" gorm:"column:role;not null"`
	CreatedAt time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (CompanyUser) TableName() string { return "company_users" }

type CreateRequest struct {
	Name             string `json:"name"`
	Address          string `json:"address"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	CIF              string `json:"cif"`
	SelectedTemplate string `json:"selectedTemplate"`
}

type UpdateRequest struct {
	Name             *string `json:"name"`
	Address          *string `json:"address"`
	Phone            *string `json:"phone"`
	Email            *string `json:"email"`
	CIF              *string `json:"cif"`
	SelectedTemplate *string `json:"selectedTemplate"`
}
