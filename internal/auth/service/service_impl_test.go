package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/vulca/internal/auth/domain"
	"github.com/smallbiznis/vulca/internal/auth/repository"
	companydomain "github.com/smallbiznis/vulca/internal/company/domain"
	companyrepository "github.com/smallbiznis/vulca/internal/company/repository"
	companyservice "github.com/smallbiznis/vulca/internal/company/service"
	"github.com/smallbiznis/vulca/internal/config"
	"github.com/smallbiznis/vulca/internal/providers/accounts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	auth    domain.Service
	company companydomain.Service
	node    *snowflake.Node
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	for _, stmt := range []string{
		`CREATE TABLE users (
			id INTEGER PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			display_name TEXT,
			role TEXT NOT NULL DEFAULT 'user',
			password_hash TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE sessions (
			id INTEGER PRIMARY KEY,
			user_id INTEGER NOT NULL,
			session_token_hash TEXT NOT NULL UNIQUE,
			user_agent TEXT,
			ip_address TEXT,
			expires_at DATETIME NOT NULL,
			revoked_at DATETIME,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			last_seen_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE companies (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			address TEXT,
			phone TEXT,
			email TEXT,
			cif TEXT,
			selected_template TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE company_users (
			company_id INTEGER NOT NULL,
			user_id INTEGER NOT NULL,
			role TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (company_id, user_id)
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

	companySvc := companyservice.New(companyservice.Params{
		DB: db, Log: zap.NewNop(), GenID: node, Repo: companyrepository.Provide(),
	})

	repo, sessionRepo := repository.New(db)
	authSvc := New(Params{
		Config:      config.Config{SessionTTLHours: 1},
		Log:         zap.NewNop(),
		GenID:       node,
		Repo:        repo,
		SessionRepo: sessionRepo,
		Company:     companySvc,
		Accounts:    accounts.NoOpDeleter{},
	})

	return &fixture{auth: authSvc, company: companySvc, node: node}
}

func TestCreateUserAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.auth.CreateUser(ctx, domain.CreateUserRequest{
		Email:    "Ana@Example.com",
		Password: "parola-sigura",
		Role:     domain.RoleCompanyAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, "ana", user.DisplayName)

	result, err := f.auth.Login(ctx, domain.LoginRequest{
		Email:    "ana@example.com",
		Password: "parola-sigura",
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.RawToken)

	session, err := f.auth.Authenticate(ctx, result.RawToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, session.UserID)
}

func TestLoginWrongPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.CreateUser(ctx, domain.CreateUserRequest{
		Email: "ana@example.com", Password: "parola-sigura",
	})
	require.NoError(t, err)

	_, err = f.auth.Login(ctx, domain.LoginRequest{
		Email: "ana@example.com", Password: "gresita-total",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.CreateUser(ctx, domain.CreateUserRequest{
		Email: "ana@example.com", Password: "parola-sigura",
	})
	require.NoError(t, err)

	_, err = f.auth.CreateUser(ctx, domain.CreateUserRequest{
		Email: "ana@example.com", Password: "alta-parola-01",
	})
	assert.ErrorIs(t, err, domain.ErrUserExists)
}

func TestLogoutRevokesSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.CreateUser(ctx, domain.CreateUserRequest{
		Email: "ana@example.com", Password: "parola-sigura",
	})
	require.NoError(t, err)

	result, err := f.auth.Login(ctx, domain.LoginRequest{
		Email: "ana@example.com", Password: "parola-sigura",
	})
	require.NoError(t, err)

	require.NoError(t, f.auth.Logout(ctx, result.RawToken))

	_, err = f.auth.Authenticate(ctx, result.RawToken)
	assert.ErrorIs(t, err, domain.ErrSessionRevoked)
}

func TestRoleOfPrefersUsersRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.auth.CreateUser(ctx, domain.CreateUserRequest{
		Email: "admin@example.com", Password: "parola-sigura", Role: domain.RoleAdmin,
	})
	require.NoError(t, err)

	company, err := f.company.Create(ctx, companydomain.CreateRequest{Name: "Vulcanizare Rapid"})
	require.NoError(t, err)
	require.NoError(t, f.company.AddMember(ctx, company.ID, user.ID, domain.RoleCompanyUser))

	role, err := f.auth.RoleOf(ctx, user.ID, company.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, role)
}

func TestRoleOfFallsBackToMembership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	company, err := f.company.Create(ctx, companydomain.CreateRequest{Name: "Vulcanizare Rapid"})
	require.NoError(t, err)

	memberID := f.node.Generate()
	require.NoError(t, f.company.AddMember(ctx, company.ID, memberID, ""))

	role, err := f.auth.RoleOf(ctx, memberID, company.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCompanyUser, role)

	// unknown everywhere
	role, err = f.auth.RoleOf(ctx, f.node.Generate(), company.ID)
	require.NoError(t, err)
	assert.Equal(t, "", role)
}

func TestDeleteUserRevokesSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.auth.CreateUser(ctx, domain.CreateUserRequest{
		Email: "ana@example.com", Password: "parola-sigura",
	})
	require.NoError(t, err)

	result, err := f.auth.Login(ctx, domain.LoginRequest{
		Email: "ana@example.com", Password: "parola-sigura",
	})
	require.NoError(t, err)

	require.NoError(t, f.auth.DeleteUser(ctx, user.ID))

	_, err = f.auth.Authenticate(ctx, result.RawToken)
	assert.ErrorIs(t, err, domain.ErrSessionRevoked)

	_, err = f.auth.UserByID(ctx, user.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
