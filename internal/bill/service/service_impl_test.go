package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/vulca/internal/bill/domain"
	"github.com/smallbiznis/vulca/internal/bill/engine"
	"github.com/smallbiznis/vulca/internal/bill/repository"
	"github.com/smallbiznis/vulca/internal/observability/metrics"
	"github.com/smallbiznis/vulca/internal/observability/obscontext"
	pricingdomain "github.com/smallbiznis/vulca/internal/pricing/domain"
	pricingrepository "github.com/smallbiznis/vulca/internal/pricing/repository"
	pricingservice "github.com/smallbiznis/vulca/internal/pricing/service"
	schemadomain "github.com/smallbiznis/vulca/internal/schema/domain"
	schemarepository "github.com/smallbiznis/vulca/internal/schema/repository"
	schemaservice "github.com/smallbiznis/vulca/internal/schema/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	bill    domain.Service
	schema  schemadomain.Service
	pricing pricingdomain.Service
	node    *snowflake.Node
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	for _, stmt := range []string{
		`CREATE TABLE bill_schemas (
			company_id INTEGER PRIMARY KEY,
			sections TEXT,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE bill_prices (
			company_id INTEGER PRIMARY KEY,
			prices TEXT,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE bills (
			id INTEGER PRIMARY KEY,
			company_id INTEGER NOT NULL,
			form TEXT,
			calculated_total REAL NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			created_by TEXT,
			created_by_id INTEGER,
			created_by_role TEXT
		)`,
	} {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create table: %v", err)
		}
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}

	m, err := metrics.New(metrics.Config{}, noop.NewMeterProvider())
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}

	schemaSvc := schemaservice.New(schemaservice.Params{
		DB: db, Log: zap.NewNop(), Repo: schemarepository.Provide(), Metrics: m,
	})
	pricingSvc := pricingservice.New(pricingservice.Params{
		DB: db, Log: zap.NewNop(), Repo: pricingrepository.Provide(), Schema: schemaSvc, Metrics: m,
	})
	billSvc := New(Params{
		DB: db, Log: zap.NewNop(), GenID: node,
		Repo: repository.Provide(), Schema: schemaSvc, Pricing: pricingSvc, Metrics: m,
	})

	return &fixture{bill: billSvc, schema: schemaSvc, pricing: pricingSvc, node: node}
}

func (f *fixture) seedCompany(t *testing.T) snowflake.ID {
	t.Helper()
	companyID := f.node.Generate()

	_, err := f.schema.Save(context.Background(), companyID, []schemadomain.Section{
		{
			ID: "sec-veh", Title: "Tip Auto", Type: schemadomain.SectionVehicleCategories,
			VehicleCategories: []schemadomain.VehicleCategory{
				{ID: "cat-car", Name: "Autoturism", Sizes: []string{"R15"}},
			},
		},
		{
			ID: "sec-svc", Title: "Servicii", Type: schemadomain.SectionServices,
			Services: []schemadomain.ServiceItem{
				{ID: "svc-swap", Name: "Schimb anvelope", DefaultWheels: 4},
			},
		},
	})
	require.NoError(t, err)

	prices := pricingdomain.Prices{}
	prices.Set("cat-car", "R15", "svc-swap", 30)
	require.NoError(t, f.pricing.Save(context.Background(), companyID, prices))

	return companyID
}

func actorContext(userID string) context.Context {
	return obscontext.WithActor(context.Background(), userID, "company_user")
}

func testForm() domain.Form {
	return domain.Form{
		"sec-veh": {engine.KeyCategory: "cat-car", engine.KeySize: "R15"},
		"sec-svc": {"svc-swap": 4.0},
	}
}

func TestSaveFreezesCalculatedTotal(t *testing.T) {
	f := newFixture(t)
	companyID := f.seedCompany(t)
	ctx := actorContext(f.node.Generate().String())

	draft, err := f.bill.OpenDraft(ctx, companyID)
	require.NoError(t, err)

	bill, err := f.bill.Save(ctx, domain.SaveRequest{
		CompanyID: companyID, Token: draft.Token, Form: testForm(),
	})
	require.NoError(t, err)
	assert.Equal(t, 120.0, bill.CalculatedTotal)
	assert.Equal(t, "company_user", bill.CreatedByRole)

	// later price changes do not touch the stored total
	updated := pricingdomain.Prices{}
	updated.Set("cat-car", "R15", "svc-swap", 100)
	require.NoError(t, f.pricing.Save(ctx, companyID, updated))

	got, err := f.bill.Get(ctx, companyID, bill.ID)
	require.NoError(t, err)
	assert.Equal(t, 120.0, got.CalculatedTotal)
}

func TestSaveRequiresAuthenticatedActor(t *testing.T) {
	f := newFixture(t)
	companyID := f.seedCompany(t)

	draft, err := f.bill.OpenDraft(context.Background(), companyID)
	require.NoError(t, err)

	_, err = f.bill.Save(context.Background(), domain.SaveRequest{
		CompanyID: companyID, Token: draft.Token, Form: testForm(),
	})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestSaveRequiresVehicleSelection(t *testing.T) {
	f := newFixture(t)
	companyID := f.seedCompany(t)
	ctx := actorContext(f.node.Generate().String())

	draft, err := f.bill.OpenDraft(ctx, companyID)
	require.NoError(t, err)

	_, err = f.bill.Save(ctx, domain.SaveRequest{
		CompanyID: companyID, Token: draft.Token,
		Form: domain.Form{"sec-svc": {"svc-swap": 4.0}},
	})
	assert.ErrorIs(t, err, domain.ErrVehicleNotSelected)
}

func TestRepeatSaveReturnsSameBill(t *testing.T) {
	f := newFixture(t)
	companyID := f.seedCompany(t)
	ctx := actorContext(f.node.Generate().String())

	draft, err := f.bill.OpenDraft(ctx, companyID)
	require.NoError(t, err)

	req := domain.SaveRequest{CompanyID: companyID, Token: draft.Token, Form: testForm()}
	first, err := f.bill.Save(ctx, req)
	require.NoError(t, err)

	second, err := f.bill.Save(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	bills, err := f.bill.List(ctx, companyID, domain.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, bills, 1)
}

func TestSaveInFlightTokenRejected(t *testing.T) {
	f := newFixture(t)
	companyID := f.seedCompany(t)
	ctx := actorContext(f.node.Generate().String())

	draft, err := f.bill.OpenDraft(ctx, companyID)
	require.NoError(t, err)

	svc := f.bill.(*Service)
	_, err = svc.beginSave(draft.Token)
	require.NoError(t, err)

	_, err = f.bill.Save(ctx, domain.SaveRequest{
		CompanyID: companyID, Token: draft.Token, Form: testForm(),
	})
	assert.ErrorIs(t, err, domain.ErrSaveInProgress)

	// releasing without a bill id allows a retry
	svc.endSave(draft.Token, 0)
	_, err = f.bill.Save(ctx, domain.SaveRequest{
		CompanyID: companyID, Token: draft.Token, Form: testForm(),
	})
	assert.NoError(t, err)
}

func TestSaveUnknownToken(t *testing.T) {
	f := newFixture(t)
	companyID := f.seedCompany(t)
	ctx := actorContext(f.node.Generate().String())

	_, err := f.bill.Save(ctx, domain.SaveRequest{
		CompanyID: companyID, Token: "never-issued", Form: testForm(),
	})
	assert.ErrorIs(t, err, domain.ErrUnknownDraft)
}

func TestDeleteBill(t *testing.T) {
	f := newFixture(t)
	companyID := f.seedCompany(t)
	ctx := actorContext(f.node.Generate().String())

	draft, err := f.bill.OpenDraft(ctx, companyID)
	require.NoError(t, err)
	bill, err := f.bill.Save(ctx, domain.SaveRequest{
		CompanyID: companyID, Token: draft.Token, Form: testForm(),
	})
	require.NoError(t, err)

	require.NoError(t, f.bill.Delete(ctx, companyID, bill.ID))

	_, err = f.bill.Get(ctx, companyID, bill.ID)
	assert.ErrorIs(t, err, domain.ErrBillNotFound)

	err = f.bill.Delete(ctx, companyID, bill.ID)
	assert.ErrorIs(t, err, domain.ErrBillNotFound)
}
