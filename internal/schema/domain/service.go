package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// Get returns the company's sections ordered by their persisted
	// order values. A missing document yields an empty slice.
	Get(ctx context.Context, companyID snowflake.ID) ([]Section, error)
	// Save renumbers section and field order values to their array
	// positions (1-based) and persists the whole sequence.
	Save(ctx context.Context, companyID snowflake.ID, sections []Section) ([]Section, error)
}
