package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	billdomain "github.com/smallbiznis/vulca/internal/bill/domain"
	"github.com/smallbiznis/vulca/internal/clock"
	"github.com/smallbiznis/vulca/internal/stats/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultRange = 30 * 24 * time.Hour

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	Bills billdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	bills billdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("stats.service"),
		clock: p.Clock,
		bills: p.Bills,
	}
}

func (s *Service) Summary(ctx context.Context, companyID snowflake.ID, req domain.SummaryRequest) (domain.Summary, error) {
	if companyID == 0 {
		return domain.Summary{}, domain.ErrInvalidCompany
	}

	from, to := normalizeRange(req.From, req.To, s.clock.Now())

	bills, err := s.bills.List(ctx, s.db, companyID, billdomain.ListFilter{
		CreatedByID: req.CreatedByID,
		From:        from,
		To:          to,
	})
	if err != nil {
		return domain.Summary{}, err
	}

	summary := domain.Summary{
		From:        from,
		To:          to,
		Bills:       bills,
		PerEmployee: []domain.EmployeeStat{},
	}

	byEmployee := make(map[snowflake.ID]*domain.EmployeeStat)
	order := make([]snowflake.ID, 0)
	for _, bill := range bills {
		summary.BillCount++
		summary.TotalRevenue += bill.CalculatedTotal

		stat, ok := byEmployee[bill.CreatedByID]
		if !ok {
			stat = &domain.EmployeeStat{
				UserID: bill.CreatedByID,
				Name:   bill.CreatedBy,
			}
			byEmployee[bill.CreatedByID] = stat
			order = append(order, bill.CreatedByID)
		}
		stat.BillCount++
		stat.Revenue += bill.CalculatedTotal
	}
	for _, id := range order {
		summary.PerEmployee = append(summary.PerEmployee, *byEmployee[id])
	}

	return summary, nil
}

func normalizeRange(from, to, now time.Time) (time.Time, time.Time) {
	if to.IsZero() {
		to = now
	}
	if from.IsZero() {
		from = to.Add(-defaultRange)
	}
	if from.After(to) {
		from, to = to, from
	}
	return from.UTC(), to.UTC()
}
