package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/domain"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// TokenVerifier validates a raw token, including revocation.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}

// Principal represents the authenticated caller.
type Principal struct {
	UserID string
	Role   domain.Role
	Token  domain.Token
}

// IsAdmin reports whether the caller holds the admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == domain.RoleAdmin
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	verifier   TokenVerifier
	cookieName string
}

// NewAuthMiddleware constructs middleware. The session cookie is accepted when
// no Authorization header is sent.
func NewAuthMiddleware(verifier TokenVerifier, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, cookieName: cookieName}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token, err := m.extract(c)
	if err != nil {
		return err
	}

	claims, err := m.verifier.Verify(c.UserContext(), token)
	if err != nil {
		return apperrors.NewUnauthorized("invalid or expired token")
	}

	c.Locals(principalKey, &Principal{
		UserID: claims.UserID,
		Role:   claims.Role,
		Token:  claims.Token(),
	})
	return c.Next()
}

func (m *AuthMiddleware) extract(c *fiber.Ctx) (string, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		if token := c.Cookies(m.cookieName); token != "" {
			return token, nil
		}
		return "", apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", apperrors.NewUnauthorized("invalid authorization header")
	}
	return strings.TrimSpace(parts[1]), nil
}

// TokenFromRequest returns the bearer token or, failing that, the cookie value.
func TokenFromRequest(c *fiber.Ctx, cookieName string) string {
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	return c.Cookies(cookieName)
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	principal, ok := c.Locals(principalKey).(*Principal)
	return principal, ok && principal != nil
}
