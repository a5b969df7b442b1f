package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/smallbiznis/vulca/internal/bill/domain"
	"github.com/smallbiznis/vulca/internal/bill/engine"
	"github.com/smallbiznis/vulca/internal/cache"
	"github.com/smallbiznis/vulca/internal/observability/metrics"
	"github.com/smallbiznis/vulca/internal/observability/obscontext"
	pricingdomain "github.com/smallbiznis/vulca/internal/pricing/domain"
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
	GenID   *snowflake.Node
	Repo    domain.Repository
	Schema  schemadomain.Service
	Pricing pricingdomain.Service
	Metrics *metrics.Metrics
}

// draftState tracks one issued draft token. A save marks the token in
// flight for its duration; success records the created bill id so a
// repeated save returns the same bill instead of a duplicate.
type draftState struct {
	inFlight bool
	billID   snowflake.ID
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	repo    domain.Repository
	schema  schemadomain.Service
	pricing pricingdomain.Service
	metrics *metrics.Metrics

	// mu serializes the claim check; the cache itself only stores
	// tokens and expires abandoned drafts.
	mu     sync.Mutex
	drafts cache.Cache[string, *draftState]
}

const draftTTL = 12 * time.Hour

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("bill.service"),
		genID:   p.GenID,
		repo:    p.Repo,
		schema:  p.Schema,
		pricing: p.Pricing,
		metrics: p.Metrics,
		drafts:  cache.NewTTLCache[string, *draftState](),
	}
}

func (s *Service) OpenDraft(ctx context.Context, companyID snowflake.ID) (*domain.BillDraft, error) {
	if companyID == 0 {
		return nil, domain.ErrInvalidCompany
	}

	token := uuid.NewString()
	s.mu.Lock()
	s.drafts.Set(token, &draftState{}, draftTTL)
	s.mu.Unlock()

	return domain.NewDraft(token), nil
}

// beginSave claims the token. It returns the already-created bill id
// when the token completed earlier.
func (s *Service) beginSave(token string) (snowflake.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.drafts.Get(token)
	if !ok {
		return 0, domain.ErrUnknownDraft
	}
	if state.billID != 0 {
		return state.billID, nil
	}
	if state.inFlight {
		return 0, domain.ErrSaveInProgress
	}
	state.inFlight = true
	return 0, nil
}

func (s *Service) endSave(token string, billID snowflake.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if state, ok := s.drafts.Get(token); ok {
		state.inFlight = false
		state.billID = billID
	}
}

func (s *Service) Save(ctx context.Context, req domain.SaveRequest) (*domain.Bill, error) {
	if req.CompanyID == 0 {
		return nil, domain.ErrInvalidCompany
	}

	actorID, role := obscontext.ActorFromContext(ctx)
	if actorID == "" {
		return nil, domain.ErrUnauthenticated
	}

	doneID, err := s.beginSave(req.Token)
	if err != nil {
		return nil, err
	}
	if doneID != 0 {
		return s.Get(ctx, req.CompanyID, doneID)
	}

	bill, err := s.save(ctx, req, actorID, role)
	if err != nil {
		s.endSave(req.Token, 0)
		return nil, err
	}
	s.endSave(req.Token, bill.ID)
	return bill, nil
}

func (s *Service) save(ctx context.Context, req domain.SaveRequest, actorID, role string) (*domain.Bill, error) {
	sections, err := s.schema.Get(ctx, req.CompanyID)
	if err != nil {
		return nil, err
	}

	categoryID, size := engine.VehicleSelection(sections, req.Form)
	if categoryID == "" || size == "" {
		return nil, domain.ErrVehicleNotSelected
	}

	prices, err := s.pricing.Get(ctx, req.CompanyID)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(req.Form)
	if err != nil {
		return nil, err
	}

	var actorSnowflake snowflake.ID
	if parsed, parseErr := snowflake.ParseString(actorID); parseErr == nil {
		actorSnowflake = parsed
	}
	actorName := obscontext.ActorNameFromContext(ctx)
	if actorName == "" {
		actorName = actorID
	}

	bill := &domain.Bill{
		ID:              s.genID.Generate(),
		CompanyID:       req.CompanyID,
		Form:            datatypes.JSON(raw),
		CalculatedTotal: engine.CalculateTotal(sections, prices, req.Form),
		CreatedAt:       time.Now().UTC(),
		CreatedBy:       actorName,
		CreatedByID:     actorSnowflake,
		CreatedByRole:   role,
	}
	if err := s.repo.Create(ctx, s.db, bill); err != nil {
		return nil, err
	}

	s.metrics.RecordBillCreated(ctx, req.CompanyID.String())
	s.log.Info("bill created",
		zap.Int64("company_id", req.CompanyID.Int64()),
		zap.Int64("bill_id", bill.ID.Int64()),
		zap.Float64("calculated_total", bill.CalculatedTotal),
	)
	return bill, nil
}

func (s *Service) Get(ctx context.Context, companyID, id snowflake.ID) (*domain.Bill, error) {
	if companyID == 0 {
		return nil, domain.ErrInvalidCompany
	}

	bill, err := s.repo.FindByID(ctx, s.db, companyID, id)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, domain.ErrBillNotFound
	}
	return bill, nil
}

func (s *Service) List(ctx context.Context, companyID snowflake.ID, filter domain.ListFilter) ([]domain.Bill, error) {
	if companyID == 0 {
		return nil, domain.ErrInvalidCompany
	}
	return s.repo.List(ctx, s.db, companyID, filter)
}

func (s *Service) Delete(ctx context.Context, companyID, id snowflake.ID) error {
	if companyID == 0 {
		return domain.ErrInvalidCompany
	}

	bill, err := s.repo.FindByID(ctx, s.db, companyID, id)
	if err != nil {
		return err
	}
	if bill == nil {
		return domain.ErrBillNotFound
	}
	return s.repo.Delete(ctx, s.db, companyID, id)
}
