package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/complaint-service/internal/domain"
)

func TestPageDecision(t *testing.T) {
	const anon = domain.Role("")
	tests := []struct {
		path string
		role domain.Role
		want string
	}{
		{"/", anon, ""},
		{"/login", anon, ""},
		{"/register", anon, ""},
		{"/", domain.RoleUser, "/submit"},
		{"/login", domain.RoleUser, "/submit"},
		{"/register/", domain.RoleAdmin, "/admin"},
		{"/admin", anon, "/login"},
		{"/admin/complaints", anon, "/login"},
		{"/admin", domain.RoleUser, "/submit"},
		{"/admin/complaints", domain.RoleAdmin, ""},
		{"/submit", anon, "/login"},
		{"/submit/new", domain.RoleUser, ""},
		{"/submit", domain.RoleAdmin, "/admin"},
		{"/administrator", anon, ""},
		{"/about", domain.RoleUser, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path+"_"+string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.want, PageDecision(tt.path, tt.role))
		})
	}
}

func TestPageGate(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	userToken, _, err := tm.Issue("u1", domain.RoleUser)
	require.NoError(t, err)
	adminToken, _, err := tm.Issue("a1", domain.RoleAdmin)
	require.NoError(t, err)

	gate := NewPageGate(managerVerifier{tm: tm}, "token", false)
	app := fiber.New()
	app.Use(gate.Handle)
	for _, path := range []string{"/", "/login", "/admin", "/submit"} {
		app.Get(path, func(c *fiber.Ctx) error { return c.SendString("page") })
	}

	tests := []struct {
		name         string
		path         string
		cookie       string
		wantStatus   int
		wantLocation string
		wantCleared  bool
	}{
		{name: "anonymous home", path: "/", wantStatus: http.StatusOK},
		{name: "anonymous admin", path: "/admin", wantStatus: http.StatusFound, wantLocation: "/login"},
		{name: "user admin", path: "/admin", cookie: userToken, wantStatus: http.StatusFound, wantLocation: "/submit"},
		{name: "admin submit", path: "/submit", cookie: adminToken, wantStatus: http.StatusFound, wantLocation: "/admin"},
		{name: "admin login", path: "/login", cookie: adminToken, wantStatus: http.StatusFound, wantLocation: "/admin"},
		{name: "user submit", path: "/submit", cookie: userToken, wantStatus: http.StatusOK},
		{name: "invalid cookie on login", path: "/login", cookie: "garbage", wantStatus: http.StatusOK, wantCleared: true},
		{name: "invalid cookie on admin", path: "/admin", cookie: "garbage", wantStatus: http.StatusFound, wantLocation: "/login", wantCleared: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "token", Value: tt.cookie})
			}
			resp, err := app.Test(req)
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantLocation, resp.Header.Get("Location"))

			setCookie := resp.Header.Get("Set-Cookie")
			if tt.wantCleared {
				assert.True(t, strings.HasPrefix(setCookie, "token=;"), setCookie)
				assert.Contains(t, setCookie, "1970")
			} else {
				assert.Empty(t, setCookie)
			}
		})
	}
}
