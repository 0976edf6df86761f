package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/domain"
)

const (
	loginPage  = "/login"
	adminPage  = "/admin"
	submitPage = "/submit"
)

// PageDecision returns where a page request must be redirected, or "" to allow
// it. role is empty for anonymous callers.
//
//	path                    anonymous  user     admin
//	/, /login, /register    allow      /submit  /admin
//	/admin, /admin/*        /login     /submit  allow
//	/submit, /submit/*      /login     allow    /admin
func PageDecision(path string, role domain.Role) string {
	if path != "/" {
		path = strings.TrimSuffix(path, "/")
	}

	switch {
	case path == "/" || path == loginPage || path == "/register":
		switch role {
		case domain.RoleAdmin:
			return adminPage
		case domain.RoleUser:
			return submitPage
		}
	case underPath(path, adminPage):
		switch role {
		case domain.RoleAdmin:
			return ""
		case domain.RoleUser:
			return submitPage
		default:
			return loginPage
		}
	case underPath(path, submitPage):
		switch role {
		case domain.RoleUser:
			return ""
		case domain.RoleAdmin:
			return adminPage
		default:
			return loginPage
		}
	}
	return ""
}

func underPath(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// PageGate applies PageDecision to browser page routes using the session cookie.
type PageGate struct {
	verifier   TokenVerifier
	cookieName string
	secure     bool
}

// NewPageGate constructs the gate.
func NewPageGate(verifier TokenVerifier, cookieName string, secure bool) *PageGate {
	return &PageGate{verifier: verifier, cookieName: cookieName, secure: secure}
}

// Handle redirects or passes the request on. A cookie that fails verification
// is cleared and the caller is treated as anonymous.
func (g *PageGate) Handle(c *fiber.Ctx) error {
	var role domain.Role
	if token := c.Cookies(g.cookieName); token != "" {
		claims, err := g.verifier.Verify(c.UserContext(), token)
		if err != nil {
			ClearTokenCookie(c, g.cookieName, g.secure)
		} else {
			role = claims.Role
			c.Locals(principalKey, &Principal{UserID: claims.UserID, Role: claims.Role, Token: claims.Token()})
		}
	}

	if target := PageDecision(c.Path(), role); target != "" {
		return c.Redirect(target, fiber.StatusFound)
	}
	return c.Next()
}
