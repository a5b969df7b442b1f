package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (*User, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Logout(ctx context.Context, rawToken string) error
	// Authenticate resolves a raw session token to its live session.
	Authenticate(ctx context.Context, rawToken string) (*Session, error)
	UserByID(ctx context.Context, id snowflake.ID) (*User, error)
	CountUsers(ctx context.Context) (int64, error)
	// RoleOf resolves the actor's role: the users row first, then the
	// company membership, defaulting to company_user for members with
	// no explicit role. "" means the user is unknown everywhere.
	RoleOf(ctx context.Context, userID, companyID snowflake.ID) (string, error)
	// DeleteUser removes the user row, revokes its sessions and
	// deletes the external account through the configured provider.
	DeleteUser(ctx context.Context, id snowflake.ID) error
}
