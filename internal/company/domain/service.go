package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Company, error)
	Get(ctx context.Context, id snowflake.ID) (*Company, error)
	List(ctx context.Context) ([]Company, error)
	Update(ctx context.Context, id snowflake.ID, req UpdateRequest) (*Company, error)
	Delete(ctx context.Context, id snowflake.ID) error

	// SelectTemplate switches the company's print template to one of
	// the registered template names.
	SelectTemplate(ctx context.Context, id snowflake.ID, template string) (*Company, error)

	AddMember(ctx context.Context, companyID, userID snowflake.ID, role string) error
	Members(ctx context.Context, companyID snowflake.ID) ([]CompanyUser, error)
	// MembershipRole returns the member's role in the company, or ""
	// when the user is not a member.
	MembershipRole(ctx context.Context, companyID, userID snowflake.ID) (string, error)
	// FirstMembershipRole returns the role of the user's first
	// membership across companies, or "" with no memberships.
	FirstMembershipRole(ctx context.Context, userID snowflake.ID) (string, error)
	RemoveMember(ctx context.Context, companyID, userID snowflake.ID) error
}
