package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	billdomain "github.com/smallbiznis/vulca/internal/bill/domain"
	billrepository "github.com/smallbiznis/vulca/internal/bill/repository"
	"github.com/smallbiznis/vulca/internal/clock"
	"github.com/smallbiznis/vulca/internal/stats/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Exec(`CREATE TABLE bills (
		id INTEGER PRIMARY KEY,
		company_id INTEGER NOT NULL,
		form TEXT NOT NULL,
		calculated_total REAL NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		created_by TEXT,
		created_by_id INTEGER,
		created_by_role TEXT
	)`).Error; err != nil {
		t.Fatalf("create table: %v", err)
	}
	return db
}

func seedBill(t *testing.T, db *gorm.DB, node *snowflake.Node, companyID, userID snowflake.ID, name string, total float64, at time.Time) {
	t.Helper()
	bill := &billdomain.Bill{
		ID:              node.Generate(),
		CompanyID:       companyID,
		Form:            []byte(`{}`),
		CalculatedTotal: total,
		CreatedAt:       at,
		CreatedBy:       name,
		CreatedByID:     userID,
	}
	require.NoError(t, db.Create(bill).Error)
}

func TestSummaryAggregatesPerEmployee(t *testing.T) {
	db := newTestDB(t)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	companyID := node.Generate()
	ana := node.Generate()
	ion := node.Generate()

	seedBill(t, db, node, companyID, ana, "Ana", 120, now.Add(-24*time.Hour))
	seedBill(t, db, node, companyID, ana, "Ana", 80, now.Add(-48*time.Hour))
	seedBill(t, db, node, companyID, ion, "Ion", 250, now.Add(-2*time.Hour))
	seedBill(t, db, node, node.Generate(), ion, "Ion", 999, now.Add(-time.Hour))

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		Clock: clock.NewFakeClock(now),
		Bills: billrepository.Provide(),
	})

	summary, err := svc.Summary(context.Background(), companyID, domain.SummaryRequest{})
	require.NoError(t, err)

	assert.Equal(t, int64(3), summary.BillCount)
	assert.InDelta(t, 450, summary.TotalRevenue, 0.001)
	require.Len(t, summary.PerEmployee, 2)

	revenues := map[string]float64{}
	counts := map[string]int64{}
	for _, stat := range summary.PerEmployee {
		revenues[stat.Name] = stat.Revenue
		counts[stat.Name] = stat.BillCount
	}
	assert.InDelta(t, 200, revenues["Ana"], 0.001)
	assert.Equal(t, int64(2), counts["Ana"])
	assert.InDelta(t, 250, revenues["Ion"], 0.001)
	assert.Equal(t, int64(1), counts["Ion"])
}

func TestSummaryFiltersByCreatorAndRange(t *testing.T) {
	db := newTestDB(t)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	companyID := node.Generate()
	ana := node.Generate()
	ion := node.Generate()

	seedBill(t, db, node, companyID, ana, "Ana", 120, now.Add(-time.Hour))
	seedBill(t, db, node, companyID, ana, "Ana", 300, now.Add(-90*24*time.Hour))
	seedBill(t, db, node, companyID, ion, "Ion", 250, now.Add(-time.Hour))

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		Clock: clock.NewFakeClock(now),
		Bills: billrepository.Provide(),
	})

	summary, err := svc.Summary(context.Background(), companyID, domain.SummaryRequest{CreatedByID: ana})
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.BillCount)
	assert.InDelta(t, 120, summary.TotalRevenue, 0.001)

	wide, err := svc.Summary(context.Background(), companyID, domain.SummaryRequest{
		From:        now.Add(-120 * 24 * time.Hour),
		CreatedByID: ana,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), wide.BillCount)
}

func TestSummaryRejectsZeroCompany(t *testing.T) {
	db := newTestDB(t)

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		Clock: clock.NewFakeClock(time.Now()),
		Bills: billrepository.Provide(),
	})

	_, err := svc.Summary(context.Background(), 0, domain.SummaryRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidCompany)
}
