package auth

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/complaint-service/internal/domain"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

// managerVerifier adapts TokenManager and an optional revoked set.
type managerVerifier struct {
	tm      *TokenManager
	revoked map[string]bool
}

func (v managerVerifier) Verify(_ context.Context, token string) (*Claims, error) {
	claims, err := v.tm.Verify(token)
	if err != nil {
		return nil, err
	}
	if v.revoked[claims.ID] {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func errorStatusHandler(c *fiber.Ctx, err error) error {
	return c.Status(apperrors.StatusOf(err)).SendString(err.Error())
}

func newAPIApp(v TokenVerifier) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: errorStatusHandler})
	mw := NewAuthMiddleware(v, "token")

	app.Get("/me", mw.Handle, RequireAuthenticated(), func(c *fiber.Ctx) error {
		p, _ := PrincipalFromContext(c)
		return c.SendString(p.UserID + ":" + string(p.Role))
	})
	app.Get("/admin-only", mw.Handle, RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	userToken, _, err := tm.Issue("u1", domain.RoleUser)
	require.NoError(t, err)
	adminToken, _, err := tm.Issue("a1", domain.RoleAdmin)
	require.NoError(t, err)
	revokedToken, _, err := tm.Issue("u2", domain.RoleUser)
	require.NoError(t, err)
	revokedClaims, err := tm.Verify(revokedToken)
	require.NoError(t, err)

	expired := NewTokenManager("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, _, err := expired.Issue("u1", domain.RoleUser)
	require.NoError(t, err)

	app := newAPIApp(managerVerifier{tm: tm, revoked: map[string]bool{revokedClaims.ID: true}})

	tests := []struct {
		name       string
		path       string
		header     string
		cookie     string
		wantStatus int
		wantBody   string
	}{
		{name: "no token", path: "/me", wantStatus: http.StatusUnauthorized},
		{name: "malformed header", path: "/me", header: "Token abc", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", path: "/me", header: "Bearer abc", wantStatus: http.StatusUnauthorized},
		{name: "expired token", path: "/me", header: "Bearer " + expiredToken, wantStatus: http.StatusUnauthorized},
		{name: "revoked token", path: "/me", header: "Bearer " + revokedToken, wantStatus: http.StatusUnauthorized},
		{name: "valid bearer", path: "/me", header: "Bearer " + userToken, wantStatus: http.StatusOK, wantBody: "u1:user"},
		{name: "valid cookie", path: "/me", cookie: userToken, wantStatus: http.StatusOK, wantBody: "u1:user"},
		{name: "user on admin route", path: "/admin-only", header: "Bearer " + userToken, wantStatus: http.StatusForbidden},
		{name: "anonymous on admin route", path: "/admin-only", wantStatus: http.StatusUnauthorized},
		{name: "admin on admin route", path: "/admin-only", header: "Bearer " + adminToken, wantStatus: http.StatusOK, wantBody: "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "token", Value: tt.cookie})
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantBody != "" {
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				assert.Equal(t, tt.wantBody, string(body))
			}
		})
	}
}

func TestTokenFromRequest(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(TokenFromRequest(c, "token"))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer abc")
	req.AddCookie(&http.Cookie{Name: "token", Value: "cookie"})
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(body))
}
