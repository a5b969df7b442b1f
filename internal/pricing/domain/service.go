package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// Get returns the company's price map. A missing document yields an
	// empty map, never nil.
	Get(ctx context.Context, companyID snowflake.ID) (Prices, error)
	// Save replaces the company's price map.
	Save(ctx context.Context, companyID snowflake.ID, prices Prices) error
	// Grid builds the editable grid from the company's schema sections
	// merged with the stored prices. It fails when the schema has no
	// vehicle categories or services section.
	Grid(ctx context.Context, companyID snowflake.ID) (*Grid, error)
}
