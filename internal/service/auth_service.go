package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

// AuthService coordinates registration, login, token verification and logout.
type AuthService struct {
	users    repository.UserRepository
	denylist repository.TokenDenylist
	tokenMgr *auth.TokenManager
	cfg      config.AuthConfig
	logger   *zap.Logger
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo     repository.UserRepository
	Denylist     repository.TokenDenylist
	TokenManager *auth.TokenManager
	Logger       *zap.Logger
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:    deps.UserRepo,
		denylist: deps.Denylist,
		tokenMgr: deps.TokenManager,
		cfg:      cfg,
		logger:   logger,
	}
}

// Register creates an account. The role comes from the admin allow-list;
// callers cannot choose it.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return nil, apperrors.NewValidationError("name, email and password are required", nil)
	}
	if len(password) > auth.MaxPasswordBytes {
		return nil, apperrors.NewValidationError("password is too long", map[string]any{"max_bytes": auth.MaxPasswordBytes})
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewInternalError(err)
	}

	hash, err := auth.HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	role := domain.RoleUser
	if s.cfg.IsAdminEmail(email) {
		role = domain.RoleAdmin
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.NewConflict("email already registered", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return s.issue(user)
}

// Login authenticates by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError("email and password are required", nil)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, mapRepoError(err, "user")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.NewInternalError(err)
	}
	return s.issue(user)
}

// Verify validates a token and checks it has not been revoked.
func (s *AuthService) Verify(ctx context.Context, token string) (*auth.Claims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, apperrors.NewValidationError("token is required", nil)
	}
	claims, err := s.tokenMgr.Verify(token)
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid or expired token")
	}
	if s.denylist != nil {
		revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			s.logger.Error("revocation check failed", zap.Error(err))
			return nil, apperrors.NewUnauthorized("invalid or expired token")
		}
		if revoked {
			return nil, apperrors.NewUnauthorized("token revoked")
		}
	}
	return claims, nil
}

// Logout revokes token until its natural expiry. Invalid tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" || s.denylist == nil {
		return nil
	}
	claims, err := s.tokenMgr.Verify(token)
	if err != nil {
		return nil
	}
	t := claims.Token()
	if err := s.denylist.Revoke(ctx, t.ID, t.ExpiresAt); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// TokenTTL exposes the token lifetime for cookie max-age.
func (s *AuthService) TokenTTL() time.Duration {
	return s.tokenMgr.TTL()
}

func (s *AuthService) issue(user *domain.User) (*AuthResult, error) {
	token, exp, err := s.tokenMgr.Issue(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: exp}, nil
}
