package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/vulca/internal/observability/metrics"
	"github.com/smallbiznis/vulca/internal/pricing/domain"
	"github.com/smallbiznis/vulca/internal/pricing/repository"
	schemadomain "github.com/smallbiznis/vulca/internal/schema/domain"
	schemarepository "github.com/smallbiznis/vulca/internal/schema/repository"
	schemaservice "github.com/smallbiznis/vulca/internal/schema/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, schemadomain.Service) {
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
	} {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create table: %v", err)
		}
	}

	m, err := metrics.New(metrics.Config{}, noop.NewMeterProvider())
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}

	schemaSvc := schemaservice.New(schemaservice.Params{
		DB:      db,
		Log:     zap.NewNop(),
		Repo:    schemarepository.Provide(),
		Metrics: m,
	})

	pricingSvc := New(Params{
		DB:      db,
		Log:     zap.NewNop(),
		Repo:    repository.Provide(),
		Schema:  schemaSvc,
		Metrics: m,
	})

	return pricingSvc, schemaSvc
}

func mustNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	return node
}

func testSections() []schemadomain.Section {
	return []schemadomain.Section{
		{
			ID: "veh", Title: "Tip Auto", Type: schemadomain.SectionVehicleCategories,
			VehicleCategories: []schemadomain.VehicleCategory{
				{ID: "cat-car", Name: "Autoturism", Sizes: []string{"R15", "R16"}},
				{ID: "cat-suv", Name: "SUV", Sizes: []string{"R18"}},
			},
		},
		{
			ID: "svc", Title: "Servicii", Type: schemadomain.SectionServices,
			Services: []schemadomain.ServiceItem{
				{ID: "svc-swap", Name: "Schimb anvelope", DefaultWheels: 4},
				{ID: "svc-balance", Name: "Echilibrare", DefaultWheels: 4},
			},
		},
	}
}

func TestLookupMissingDefaultsToZero(t *testing.T) {
	prices := domain.Prices{}
	assert.Equal(t, 0.0, prices.Lookup("cat-car", "R15", "svc-swap"))
	assert.False(t, prices.Has("cat-car", "R15", "svc-swap"))

	prices.Set("cat-car", "R15", "svc-swap", 120)
	assert.Equal(t, 120.0, prices.Lookup("cat-car", "R15", "svc-swap"))
	assert.True(t, prices.Has("cat-car", "R15", "svc-swap"))
	assert.Equal(t, 0.0, prices.Lookup("cat-car", "R16", "svc-swap"))
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	companyID := mustNode(t).Generate()

	prices := domain.Prices{}
	prices.Set("cat-car", "R15", "svc-swap", 120)
	prices.Set("cat-car", "R15", "svc-balance", 60.5)
	require.NoError(t, svc.Save(context.Background(), companyID, prices))

	got, err := svc.Get(context.Background(), companyID)
	require.NoError(t, err)
	assert.Equal(t, 120.0, got.Lookup("cat-car", "R15", "svc-swap"))
	assert.Equal(t, 60.5, got.Lookup("cat-car", "R15", "svc-balance"))
	assert.Equal(t, 0.0, got.Lookup("cat-suv", "R18", "svc-swap"))
}

func TestGetMissingTableReturnsEmpty(t *testing.T) {
	svc, _ := newTestService(t)

	got, err := svc.Get(context.Background(), mustNode(t).Generate())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 0.0, got.Lookup("x", "y", "z"))
}

func TestSaveRejectsNegativePrice(t *testing.T) {
	svc, _ := newTestService(t)

	prices := domain.Prices{}
	prices.Set("cat-car", "R15", "svc-swap", -1)
	err := svc.Save(context.Background(), mustNode(t).Generate(), prices)
	assert.ErrorIs(t, err, domain.ErrNegativePrice)
}

func TestGridMergesSchemaWithStoredPrices(t *testing.T) {
	svc, schemaSvc := newTestService(t)
	companyID := mustNode(t).Generate()

	_, err := schemaSvc.Save(context.Background(), companyID, testSections())
	require.NoError(t, err)

	prices := domain.Prices{}
	prices.Set("cat-car", "R16", "svc-swap", 140)
	require.NoError(t, svc.Save(context.Background(), companyID, prices))

	grid, err := svc.Grid(context.Background(), companyID)
	require.NoError(t, err)

	require.Len(t, grid.Columns, 2)
	assert.Equal(t, "Schimb anvelope", grid.Columns[0].ServiceName)

	// one row per category/size pair
	require.Len(t, grid.Rows, 3)
	assert.Equal(t, "Autoturism", grid.Rows[0].CategoryName)
	assert.Equal(t, "R15", grid.Rows[0].Size)
	assert.Equal(t, 0.0, grid.Rows[0].Values["svc-swap"])
	assert.Equal(t, 140.0, grid.Rows[1].Values["svc-swap"])
	assert.Equal(t, "R18", grid.Rows[2].Size)
}

func TestGridRequiresBothSections(t *testing.T) {
	svc, schemaSvc := newTestService(t)
	companyID := mustNode(t).Generate()

	_, err := schemaSvc.Save(context.Background(), companyID, []schemadomain.Section{
		{ID: "svc", Title: "Servicii", Type: schemadomain.SectionServices},
	})
	require.NoError(t, err)

	_, err = svc.Grid(context.Background(), companyID)
	assert.ErrorIs(t, err, domain.ErrSchemaIncomplete)
}
