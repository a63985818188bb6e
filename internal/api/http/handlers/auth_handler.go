package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/nimbus-works/identity-service/internal/api/dto"
	"github.com/nimbus-works/identity-service/internal/auth"
	"github.com/nimbus-works/identity-service/internal/domain"
	"github.com/nimbus-works/identity-service/internal/service"
)

// AuthHandler exposes registration, login and session endpoints.
type AuthHandler struct {
	accounts   *service.AccountService
	production bool
}

// NewAuthHandler constructs handler. The production flag only changes
// cookie attributes, never core behavior.
func NewAuthHandler(accounts *service.AccountService, production bool) *AuthHandler {
	return &AuthHandler{accounts: accounts, production: production}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	user, token, exp, err := h.accounts.Register(c.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	h.setSessionCookie(c, token, exp)
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"user": userResponse(user),
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	user, token, exp, err := h.accounts.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.setSessionCookie(c, token, exp)
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": userResponse(user),
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Logout handles POST /api/auth/logout. Session tokens are stateless, so
// logging out only discards the client-held cookie.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.accounts.Logout(c.Context()); err != nil {
		return err
	}
	h.clearSessionCookie(c)
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "logged out"}})
}

// IsAuthenticated handles GET /api/auth/is-auth behind the auth middleware.
func (h *AuthHandler) IsAuthenticated(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "session is active"}})
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     auth.SessionCookieName,
		Value:    token,
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   h.production,
		SameSite: h.sameSite(),
	})
}

func (h *AuthHandler) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   h.production,
		SameSite: h.sameSite(),
	})
}

func (h *AuthHandler) sameSite() string {
	if h.production {
		return fiber.CookieSameSiteNoneMode
	}
	return fiber.CookieSameSiteStrictMode
}

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		IsVerified: user.IsVerified,
	}
}
