package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	billdomain "github.com/smallbiznis/vulca/internal/bill/domain"
)

type SummaryRequest struct {
	From        time.Time
	To          time.Time
	CreatedByID snowflake.ID
}

// EmployeeStat aggregates the bills one employee created in the range.
type EmployeeStat struct {
	UserID    snowflake.ID `json:"userId,string"`
	Name      string       `json:"name"`
	BillCount int64        `json:"billCount"`
	Revenue   float64      `json:"revenue"`
}

type Summary struct {
	From         time.Time         `json:"from"`
	To           time.Time         `json:"to"`
	BillCount    int64             `json:"billCount"`
	TotalRevenue float64           `json:"totalRevenue"`
	PerEmployee  []EmployeeStat    `json:"perEmployee"`
	Bills        []billdomain.Bill `json:"bills"`
}

// Service exposes read-only bill statistics per company.
type Service interface {
	Summary(ctx context.Context, companyID snowflake.ID, req SummaryRequest) (Summary, error)
}

var (
	ErrInvalidCompany = errors.New("invalid company")
)
