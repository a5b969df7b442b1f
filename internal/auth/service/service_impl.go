package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/vulca/internal/auth/domain"
	"github.com/smallbiznis/vulca/internal/auth/password"
	companydomain "github.com/smallbiznis/vulca/internal/company/domain"
	"github.com/smallbiznis/vulca/internal/config"
	"github.com/smallbiznis/vulca/internal/providers/accounts"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	sessionTokenBytes = 32
	defaultSessionTTL = 7 * 24 * time.Hour

	minPasswordLength = 8
)

type Params struct {
	fx.In

	Config      config.Config
	Log         *zap.Logger
	GenID       *snowflake.Node
	Repo        domain.Repository
	SessionRepo domain.SessionRepository
	Company     companydomain.Service
	Accounts    accounts.Deleter
}

type Service struct {
	log         *zap.Logger
	repo        domain.Repository
	sessionRepo domain.SessionRepository
	company     companydomain.Service
	accounts    accounts.Deleter
	genID       *snowflake.Node
	sessionTTL  time.Duration
}

func New(p Params) domain.Service {
	ttl := defaultSessionTTL
	if p.Config.SessionTTLHours > 0 {
		ttl = time.Duration(p.Config.SessionTTLHours) * time.Hour
	}
	return &Service{
		log:         p.Log.Named("auth.service"),
		repo:        p.Repo,
		sessionRepo: p.SessionRepo,
		company:     p.Company,
		accounts:    p.Accounts,
		genID:       p.GenID,
		sessionTTL:  ttl,
	}
}

func (s *Service) CreateUser(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if len(strings.TrimSpace(req.Password)) < minPasswordLength {
		return nil, domain.ErrInvalidCredentials
	}

	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = domain.RoleUser
	}
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidRole
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		displayName = defaultDisplayName(email)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           s.genID.Generate(),
		Email:        email,
		DisplayName:  displayName,
		Role:         role,
		PasswordHash: &hashed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user created",
		zap.Int64("user_id", user.ID.Int64()),
		zap.String("role", user.Role),
	)
	return user, nil
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResult, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if strings.TrimSpace(req.Password) == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if user.PasswordHash == nil || !password.Verify(req.Password, *user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	rawToken, err := newSessionToken()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session := &domain.Session{
		ID:               s.genID.Generate(),
		UserID:           user.ID,
		SessionTokenHash: hashToken(rawToken),
		UserAgent:        strings.TrimSpace(req.UserAgent),
		IPAddress:        strings.TrimSpace(req.IPAddress),
		ExpiresAt:        now.Add(s.sessionTTL),
		CreatedAt:        now,
		LastSeenAt:       now,
	}
	if err := s.sessionRepo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	return &domain.LoginResult{
		User:      user,
		RawToken:  rawToken,
		ExpiresAt: session.ExpiresAt,
		SessionID: session.ID,
	}, nil
}

func (s *Service) Logout(ctx context.Context, rawToken string) error {
	token := strings.TrimSpace(rawToken)
	if token == "" {
		return domain.ErrInvalidSession
	}

	session, err := s.sessionRepo.GetSessionByTokenHash(ctx, hashToken(token))
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return domain.ErrInvalidSession
		}
		return err
	}

	return s.sessionRepo.RevokeSession(ctx, session.ID, time.Now().UTC())
}

func (s *Service) Authenticate(ctx context.Context, rawToken string) (*domain.Session, error) {
	token := strings.TrimSpace(rawToken)
	if token == "" {
		return nil, domain.ErrInvalidSession
	}

	session, err := s.sessionRepo.GetSessionByTokenHash(ctx, hashToken(token))
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrInvalidSession
		}
		return nil, err
	}

	now := time.Now().UTC()
	if session.RevokedAt != nil {
		return nil, domain.ErrSessionRevoked
	}
	if now.After(session.ExpiresAt) {
		return nil, domain.ErrSessionExpired
	}

	if err := s.sessionRepo.UpdateLastSeen(ctx, session.ID, now); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *Service) UserByID(ctx context.Context, id snowflake.ID) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) CountUsers(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *Service) RoleOf(ctx context.Context, userID, companyID snowflake.ID) (string, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err == nil {
		if user.Role != "" {
			return user.Role, nil
		}
		return domain.RoleUser, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return "", err
	}

	if companyID != 0 {
		role, err := s.company.MembershipRole(ctx, companyID, userID)
		if err != nil {
			return "", err
		}
		if role != "" {
			return role, nil
		}
	}

	role, err := s.company.FirstMembershipRole(ctx, userID)
	if err != nil {
		return "", err
	}
	return role, nil
}

func (s *Service) DeleteUser(ctx context.Context, id snowflake.ID) error {
	uid := id.String()

	if err := s.repo.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}
	if err := s.sessionRepo.RevokeUserSessions(ctx, id, time.Now().UTC()); err != nil {
		return err
	}
	if err := s.accounts.DeleteAccount(ctx, uid); err != nil {
		return err
	}

	s.log.Info("user deleted", zap.String("uid", uid))
	return nil
}

func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(addr.Address)), nil
}

func defaultDisplayName(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) > 0 && strings.TrimSpace(parts[0]) != "" {
		return strings.TrimSpace(parts[0])
	}
	return email
}

func newSessionToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
