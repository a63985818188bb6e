package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nimbus-works/identity-service/internal/api/http/handlers"
	"github.com/nimbus-works/identity-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Verification   *handlers.VerificationHandler
	PasswordReset  *handlers.PasswordResetHandler
	User           *handlers.UserHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("server is live")
	})
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	authGroup := app.Group("/api/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Post("/send-reset-otp", cfg.PasswordReset.SendOTP)
	authGroup.Post("/verify-reset-otp", cfg.PasswordReset.VerifyOTP)
	authGroup.Post("/reset-password", cfg.PasswordReset.ResetPassword)

	protected := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuth())
	protected.Get("/is-auth", cfg.Auth.IsAuthenticated)
	protected.Post("/send-verify-otp", cfg.Verification.SendOTP)
	protected.Post("/verify-account", cfg.Verification.VerifyAccount)

	userGroup := app.Group("/api/user", cfg.AuthMiddleware.Handle, auth.RequireAuth())
	userGroup.Get("/data", cfg.User.Data)
}
