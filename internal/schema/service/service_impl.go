package service

import (
	"context"
	"encoding/json"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/vulca/internal/observability/metrics"
	"github.com/smallbiznis/vulca/internal/schema/builder"
	"github.com/smallbiznis/vulca/internal/schema/domain"
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
	Metrics *metrics.Metrics
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	repo    domain.Repository
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("schema.service"),
		repo:    p.Repo,
		metrics: p.Metrics,
	}
}

func (s *Service) Get(ctx context.Context, companyID snowflake.ID) ([]domain.Section, error) {
	if companyID == 0 {
		return nil, domain.ErrInvalidCompany
	}

	schema, err := s.repo.Find(ctx, s.db, companyID)
	if err != nil {
		return nil, err
	}
	if schema == nil {
		return []domain.Section{}, nil
	}

	var sections []domain.Section
	if len(schema.Sections) > 0 {
		if err := json.Unmarshal(schema.Sections, &sections); err != nil {
			return nil, err
		}
	}
	domain.SortByOrder(sections)
	return sections, nil
}

func (s *Service) Save(ctx context.Context, companyID snowflake.ID, sections []domain.Section) ([]domain.Section, error) {
	if companyID == 0 {
		return nil, domain.ErrInvalidCompany
	}

	for _, section := range sections {
		if !section.Type.Valid() {
			return nil, domain.ErrInvalidSectionType
		}
	}

	sections = builder.Renumber(sections)

	raw, err := json.Marshal(sections)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SaveSections(ctx, s.db, companyID, datatypes.JSON(raw)); err != nil {
		return nil, err
	}

	s.metrics.RecordSchemaSave(ctx, companyID.String())
	s.log.Info("schema saved",
		zap.Int64("company_id", companyID.Int64()),
		zap.Int("sections", len(sections)),
	)
	return sections, nil
}
