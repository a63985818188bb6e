package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/nimbus-works/identity-service/internal/api/dto"
	"github.com/nimbus-works/identity-service/internal/auth"
	"github.com/nimbus-works/identity-service/internal/service"
	apperrors "github.com/nimbus-works/identity-service/pkg/util"
)

// VerificationHandler exposes the email verification OTP endpoints. Both
// routes run behind the auth middleware: the user identity comes from the
// verified session token, never from the request body.
type VerificationHandler struct {
	verification *service.VerificationService
}

// NewVerificationHandler constructs handler.
func NewVerificationHandler(verification *service.VerificationService) *VerificationHandler {
	return &VerificationHandler{verification: verification}
}

// SendOTP handles POST /api/auth/send-verify-otp.
func (h *VerificationHandler) SendOTP(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authorized, login again")
	}

	if err := h.verification.RequestOTP(c.Context(), principal.UserID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "verification OTP sent"}})
}

// VerifyAccount handles POST /api/auth/verify-account.
func (h *VerificationHandler) VerifyAccount(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authorized, login again")
	}

	var req dto.VerifyAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.verification.Confirm(c.Context(), principal.UserID, req.OTP); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "email verified"}})
}
