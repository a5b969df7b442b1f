package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/vulca/internal/observability/metrics"
	"github.com/smallbiznis/vulca/internal/schema/domain"
	"github.com/smallbiznis/vulca/internal/schema/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) domain.Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Exec(`CREATE TABLE bill_schemas (
		company_id INTEGER PRIMARY KEY,
		sections TEXT,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`).Error; err != nil {
		t.Fatalf("create table: %v", err)
	}

	m, err := metrics.New(metrics.Config{}, noop.NewMeterProvider())
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}

	return New(Params{
		DB:      db,
		Log:     zap.NewNop(),
		Repo:    repository.Provide(),
		Metrics: m,
	})
}

func mustNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	return node
}

func TestGetMissingSchemaReturnsEmpty(t *testing.T) {
	svc := newTestService(t)
	companyID := mustNode(t).Generate()

	sections, err := svc.Get(context.Background(), companyID)
	require.NoError(t, err)
	assert.Empty(t, sections)
}

func TestSaveRenumbersAndRoundTrips(t *testing.T) {
	svc := newTestService(t)
	companyID := mustNode(t).Generate()

	saved, err := svc.Save(context.Background(), companyID, []domain.Section{
		{ID: "s1", Title: "Servicii", Type: domain.SectionServices, Order: 12},
		{ID: "s2", Title: "Detalii Client", Type: domain.SectionCustom, Order: 3,
			Fields: []domain.Field{{ID: "f1", Name: "Nume", Type: domain.FieldText, Order: 4}}},
	})
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.Equal(t, 1, saved[0].Order)
	assert.Equal(t, 2, saved[1].Order)
	assert.Equal(t, 1, saved[1].Fields[0].Order)

	got, err := svc.Get(context.Background(), companyID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "s1", got[0].ID)
	assert.Equal(t, domain.SectionServices, got[0].Type)
	assert.Equal(t, "Detalii Client", got[1].Title)
}

func TestSaveOverwritesPreviousSections(t *testing.T) {
	svc := newTestService(t)
	companyID := mustNode(t).Generate()

	_, err := svc.Save(context.Background(), companyID, []domain.Section{
		{ID: "s1", Title: "Old", Type: domain.SectionCustom},
		{ID: "s2", Title: "Gone", Type: domain.SectionList},
	})
	require.NoError(t, err)

	_, err = svc.Save(context.Background(), companyID, []domain.Section{
		{ID: "s3", Title: "New", Type: domain.SectionRichText},
	})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), companyID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "s3", got[0].ID)
}

func TestGetReordersByPersistedOrder(t *testing.T) {
	svc := newTestService(t)
	companyID := mustNode(t).Generate()

	_, err := svc.Save(context.Background(), companyID, []domain.Section{
		{ID: "a", Type: domain.SectionCustom},
		{ID: "b", Type: domain.SectionCustom},
		{ID: "c", Type: domain.SectionCustom},
	})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), companyID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestSaveRejectsUnknownSectionType(t *testing.T) {
	svc := newTestService(t)
	companyID := mustNode(t).Generate()

	_, err := svc.Save(context.Background(), companyID, []domain.Section{
		{ID: "s1", Type: domain.SectionType("totals")},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidSectionType)
}

func TestSaveRejectsZeroCompany(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Save(context.Background(), 0, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidCompany)

	_, err = svc.Get(context.Background(), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidCompany)
}
