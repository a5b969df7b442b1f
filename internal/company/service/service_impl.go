package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/vulca/internal/company/domain"
	"github.com/smallbiznis/vulca/internal/printtemplate"
	"github.com/smallbiznis/vulca/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("company.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Company, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	template := strings.TrimSpace(req.SelectedTemplate)
	if template == "" {
		template = printtemplate.Default
	}
	if !printtemplate.Known(template) {
		return nil, domain.ErrUnknownTemplate
	}

	now := time.Now().UTC()
	company := &domain.Company{
		ID:               s.genID.Generate(),
		Name:             name,
		Address:          strings.TrimSpace(req.Address),
		Phone:            strings.TrimSpace(req.Phone),
		Email:            strings.TrimSpace(req.Email),
		CIF:              strings.TrimSpace(req.CIF),
		SelectedTemplate: template,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.Create(ctx, s.db, company); err != nil {
		return nil, err
	}

	s.log.Info("company created",
		zap.Int64("company_id", company.ID.Int64()),
		zap.String("name", company.Name),
	)
	return company, nil
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*domain.Company, error) {
	company, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrCompanyNotFound
	}
	return company, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Company, error) {
	return s.repo.FindAll(ctx, s.db)
}

func (s *Service) Update(ctx context.Context, id snowflake.ID, req domain.UpdateRequest) (*domain.Company, error) {
	company, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		company.Name = name
	}
	if req.Address != nil {
		company.Address = strings.TrimSpace(*req.Address)
	}
	if req.Phone != nil {
		company.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Email != nil {
		company.Email = strings.TrimSpace(*req.Email)
	}
	if req.CIF != nil {
		company.CIF = strings.TrimSpace(*req.CIF)
	}
	if req.SelectedTemplate != nil {
		template := strings.TrimSpace(*req.SelectedTemplate)
		if !printtemplate.Known(template) {
			return nil, domain.ErrUnknownTemplate
		}
		company.SelectedTemplate = template
	}

	company.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, company); err != nil {
		return nil, err
	}
	return company, nil
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	company, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if company == nil {
		return domain.ErrCompanyNotFound
	}
	return s.repo.Delete(ctx, s.db, id)
}

func (s *Service) SelectTemplate(ctx context.Context, id snowflake.ID, template string) (*domain.Company, error) {
	return s.Update(ctx, id, domain.UpdateRequest{SelectedTemplate: &template})
}

func (s *Service) AddMember(ctx context.Context, companyID, userID snowflake.ID, role string) error {
	if role == "" {
		role = "company_user"
	}

	company, err := s.repo.FindByID(ctx, s.db, companyID)
	if err != nil {
		return err
	}
	if company == nil {
		return domain.ErrCompanyNotFound
	}

	member := &domain.CompanyUser{
		CompanyID: companyID,
		UserID:    userID,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.AddMember(ctx, s.db, member); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.ErrMemberAlreadyExists
		}
		return err
	}
	return nil
}

func (s *Service) Members(ctx context.Context, companyID snowflake.ID) ([]domain.CompanyUser, error) {
	return s.repo.ListMembers(ctx, s.db, companyID)
}

func (s *Service) MembershipRole(ctx context.Context, companyID, userID snowflake.ID) (string, error) {
	member, err := s.repo.FindMember(ctx, s.db, companyID, userID)
	if err != nil {
		return "", err
	}
	if member == nil {
		return "", nil
	}
	return member.Role, nil
}

func (s *Service) FirstMembershipRole(ctx context.Context, userID snowflake.ID) (string, error) {
	memberships, err := s.repo.FindMemberships(ctx, s.db, userID)
	if err != nil {
		return "", err
	}
	if len(memberships) == 0 {
		return "", nil
	}
	if memberships[0].Role == "" {
		return "company_user", nil
	}
	return memberships[0].Role, nil
}

func (s *Service) RemoveMember(ctx context.Context, companyID, userID snowflake.ID) error {
	member, err := s.repo.FindMember(ctx, s.db, companyID, userID)
	if err != nil {
		return err
	}
	if member == nil {
		return domain.ErrMemberNotFound
	}
	return s.repo.RemoveMember(ctx, s.db, companyID, userID)
}
