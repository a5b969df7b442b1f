package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// SaveRequest carries one completed form plus the draft token issued
// when the form was opened. The token serializes saves: a second save
// with the same token while the first is in flight is rejected, and a
// save with an already-completed token returns the original bill.
type SaveRequest struct {
	CompanyID snowflake.ID
	Token     string
	Form      Form
}

type Service interface {
	// OpenDraft issues a fresh draft token for one fill-bill session.
	OpenDraft(ctx context.Context, companyID snowflake.ID) (*BillDraft, error)
	// Save validates, freezes the calculated total and persists the
	// bill. Repeated saves with the same token yield the same bill.
	Save(ctx context.Context, req SaveRequest) (*Bill, error)
	Get(ctx context.Context, companyID, id snowflake.ID) (*Bill, error)
	List(ctx context.Context, companyID snowflake.ID, filter ListFilter) ([]Bill, error)
	Delete(ctx context.Context, companyID, id snowflake.ID) error
}
