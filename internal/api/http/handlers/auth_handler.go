package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/dto"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/service"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

// AuthHandler exposes registration, login, verification and logout.
type AuthHandler struct {
	auth         *service.AuthService
	cookieName   string
	cookieSecure bool
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, cookieName string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{auth: authService, cookieName: cookieName, cookieSecure: cookieSecure}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.UserRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	result, err := h.auth.Register(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	return h.respond(c, http.StatusCreated, "User registered successfully", result)
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.UserLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	result, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return h.respond(c, http.StatusOK, "Login successful", result)
}

// Verify handles POST /auth/verify. The token comes from the body, falling back
// to the Authorization header or cookie.
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	var req dto.VerifyTokenRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(http.StatusBadRequest).JSON(dto.VerifyTokenResponse{Valid: false})
		}
	}
	token := req.Token
	if token == "" {
		token = auth.TokenFromRequest(c, h.cookieName)
	}

	claims, err := h.auth.Verify(c.UserContext(), token)
	if err != nil {
		switch status := apperrors.StatusOf(err); status {
		case http.StatusBadRequest, http.StatusUnauthorized:
			return c.Status(status).JSON(dto.VerifyTokenResponse{Valid: false})
		default:
			return err
		}
	}
	return c.JSON(dto.VerifyTokenResponse{Valid: true, UserID: claims.UserID, Role: claims.Role})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.auth.Logout(c.UserContext(), auth.TokenFromRequest(c, h.cookieName)); err != nil {
		return err
	}
	auth.ClearTokenCookie(c, h.cookieName, h.cookieSecure)
	return c.JSON(dto.MessageResponse{Message: "Logged out successfully"})
}

func (h *AuthHandler) respond(c *fiber.Ctx, status int, message string, result *service.AuthResult) error {
	auth.SetTokenCookie(c, h.cookieName, result.Token, h.auth.TokenTTL(), h.cookieSecure)
	return c.Status(status).JSON(dto.AuthResponse{
		Message:   message,
		User:      dto.NewUserResponse(result.User),
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
	})
}
