package render

import (
	"context"

	"github.com/bwmarrin/snowflake"
	billdomain "github.com/smallbiznis/vulca/internal/bill/domain"
	companydomain "github.com/smallbiznis/vulca/internal/company/domain"
	"github.com/smallbiznis/vulca/internal/observability/metrics"
	"github.com/smallbiznis/vulca/internal/printguard"
	pricingdomain "github.com/smallbiznis/vulca/internal/pricing/domain"
	schemadomain "github.com/smallbiznis/vulca/internal/schema/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log     *zap.Logger
	Bill    billdomain.Service
	Schema  schemadomain.Service
	Pricing pricingdomain.Service
	Company companydomain.Service
	Guard   *printguard.Guard
	Metrics *metrics.Metrics
}

// Service assembles printable work orders from a saved bill plus the
// company's live schema and prices.
type Service struct {
	log      *zap.Logger
	bill     billdomain.Service
	schema   schemadomain.Service
	pricing  pricingdomain.Service
	company  companydomain.Service
	guard    *printguard.Guard
	renderer *HTMLRenderer
	metrics  *metrics.Metrics
}

func New(p Params) *Service {
	return &Service{
		log:      p.Log.Named("bill.render"),
		bill:     p.Bill,
		schema:   p.Schema,
		pricing:  p.Pricing,
		company:  p.Company,
		guard:    p.Guard,
		renderer: NewRenderer(),
		metrics:  p.Metrics,
	}
}

// Document builds the resolved work order without the print trigger,
// for exports that never auto-print.
func (s *Service) Document(ctx context.Context, companyID, billID snowflake.ID) (*Document, error) {
	return s.document(ctx, companyID, billID, false)
}

// RenderHTML renders the two printed copies. The first rendering of a
// bill within a session embeds the auto-print trigger; repeats render
// the same page without it. The guard is claimed before rendering.
func (s *Service) RenderHTML(ctx context.Context, companyID, billID snowflake.ID, sessionID string) (string, error) {
	autoPrint := false
	if sessionID != "" {
		autoPrint = s.guard.Begin(sessionID, billID.Int64())
	}

	doc, err := s.document(ctx, companyID, billID, autoPrint)
	if err != nil {
		return "", err
	}

	html, err := s.renderer.RenderHTML(doc)
	if err != nil {
		return "", err
	}

	if autoPrint {
		s.metrics.RecordBillPrint(ctx, companyID.String(), doc.Theme.Name)
		s.log.Info("bill printed",
			zap.Int64("company_id", companyID.Int64()),
			zap.Int64("bill_id", billID.Int64()),
			zap.String("template", doc.Theme.Name),
		)
	}
	return html, nil
}

func (s *Service) document(ctx context.Context, companyID, billID snowflake.ID, autoPrint bool) (*Document, error) {
	bill, err := s.bill.Get(ctx, companyID, billID)
	if err != nil {
		return nil, err
	}

	company, err := s.company.Get(ctx, companyID)
	if err != nil {
		return nil, err
	}

	sections, err := s.schema.Get(ctx, companyID)
	if err != nil {
		return nil, err
	}

	prices, err := s.pricing.Get(ctx, companyID)
	if err != nil {
		return nil, err
	}

	return BuildDocument(bill, company, sections, prices, autoPrint)
}
