package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/nimbus-works/identity-service/internal/api/dto"
	"github.com/nimbus-works/identity-service/internal/service"
)

// PasswordResetHandler exposes the reset OTP endpoints. These are public:
// the caller proves ownership of the account through the mailed code.
type PasswordResetHandler struct {
	resets *service.PasswordResetService
}

// NewPasswordResetHandler constructs handler.
func NewPasswordResetHandler(resets *service.PasswordResetService) *PasswordResetHandler {
	return &PasswordResetHandler{resets: resets}
}

// SendOTP handles POST /api/auth/send-reset-otp.
func (h *PasswordResetHandler) SendOTP(c *fiber.Ctx) error {
	var req dto.SendResetOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.resets.RequestOTP(c.Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "reset OTP sent"}})
}

// VerifyOTP handles POST /api/auth/verify-reset-otp. Read-only pre-check;
// the code stays consumable for the subsequent reset call.
func (h *PasswordResetHandler) VerifyOTP(c *fiber.Ctx) error {
	var req dto.VerifyResetOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.resets.VerifyOTP(c.Context(), req.Email, req.OTP); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "OTP verified"}})
}

// ResetPassword handles POST /api/auth/reset-password.
func (h *PasswordResetHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.resets.CompleteReset(c.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "password has been reset"}})
}
