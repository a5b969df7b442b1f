package service

import (
	"context"
	"encoding/json"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/vulca/internal/observability/metrics"
	"github.com/smallbiznis/vulca/internal/pricing/domain"
	schemadomain "github.com/smallbiznis/vulca/internal/schema/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Repo    domain.Repository
	Schema  schemadomain.Service
	Metrics *metrics.Metrics
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	repo    domain.Repository
	schema  schemadomain.Service
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("pricing.service"),
		repo:    p.Repo,
		schema:  p.Schema,
		metrics: p.Metrics,
	}
}

func (s *Service) Get(ctx context.Context, companyID snowflake.ID) (domain.Prices, error) {
	if companyID == 0 {
		return nil, domain.ErrInvalidCompany
	}

	table, err := s.repo.Find(ctx, s.db, companyID)
	if err != nil {
		return nil, err
	}
	if table == nil {
		return domain.Prices{}, nil
	}

	prices := domain.Prices{}
	if len(table.Prices) > 0 {
		if err := json.Unmarshal(table.Prices, &prices); err != nil {
			return nil, err
		}
	}
	return prices, nil
}

func (s *Service) Save(ctx context.Context, companyID snowflake.ID, prices domain.Prices) error {
	if companyID == 0 {
		return domain.ErrInvalidCompany
	}
	if prices == nil {
		prices = domain.Prices{}
	}

	for _, sizes := range prices {
		for _, services := range sizes {
			for _, value := range services {
				if value < 0 {
					return domain.ErrNegativePrice
				}
			}
		}
	}

	raw, err := json.Marshal(prices)
	if err != nil {
		return err
	}

	if err := s.repo.SavePrices(ctx, s.db, companyID, datatypes.JSON(raw)); err != nil {
		return err
	}

	s.metrics.RecordPriceSave(ctx, companyID.String())
	s.log.Info("prices saved", zap.Int64("company_id", companyID.Int64()))
	return nil
}

// Grid walks the schema's vehicle categories section row by row
// (category then size) against the services section columns, filling
// each cell from the stored prices with 0 for unconfigured cells.
func (s *Service) Grid(ctx context.Context, companyID snowflake.ID) (*domain.Grid, error) {
	sections, err := s.schema.Get(ctx, companyID)
	if err != nil {
		return nil, err
	}

	vehicles := schemadomain.FindByType(sections, schemadomain.SectionVehicleCategories)
	services := schemadomain.FindByType(sections, schemadomain.SectionServices)
	if vehicles == nil || services == nil {
		return nil, domain.ErrSchemaIncomplete
	}

	prices, err := s.Get(ctx, companyID)
	if err != nil {
		return nil, err
	}

	grid := &domain.Grid{
		Columns: make([]domain.GridColumn, 0, len(services.Services)),
		Rows:    []domain.GridRow{},
	}
	for _, svc := range services.Services {
		grid.Columns = append(grid.Columns, domain.GridColumn{
			ServiceID:   svc.ID,
			ServiceName: svc.Name,
		})
	}

	for _, cat := range vehicles.VehicleCategories {
		for _, size := range cat.Sizes {
			row := domain.GridRow{
				CategoryID:   cat.ID,
				CategoryName: cat.Name,
				Size:         size,
				Values:       make(map[string]float64, len(services.Services)),
			}
			for _, svc := range services.Services {
				row.Values[svc.ID] = prices.Lookup(cat.ID, size, svc.ID)
			}
			grid.Rows = append(grid.Rows, row)
		}
	}

	return grid, nil
}
