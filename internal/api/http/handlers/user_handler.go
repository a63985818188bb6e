package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nimbus-works/identity-service/internal/auth"
	apperrors "github.com/nimbus-works/identity-service/pkg/util"
)

// UserHandler exposes the authenticated account profile.
type UserHandler struct{}

// NewUserHandler constructs handler.
func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// Data handles GET /api/user/data.
func (h *UserHandler) Data(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("not authorized, login again")
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": userResponse(principal.User),
		},
	})
}
