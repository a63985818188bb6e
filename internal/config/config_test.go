package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "identity-service", cfg.App.Name)
	require.False(t, cfg.App.IsProduction())
	require.Equal(t, []string{"http://localhost:5173", "http://localhost:5174"}, cfg.App.AllowedOrigins)

	require.Equal(t, 168*time.Hour, cfg.Auth.SessionTTL())
	require.Equal(t, 24*time.Hour, cfg.Auth.VerifyOTPTTL())
	require.Equal(t, 15*time.Minute, cfg.Auth.ResetOTPTTL())
	require.Equal(t, 12, cfg.Auth.BcryptCost)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_SESSION_TTL_HOURS", "24")
	t.Setenv("AUTH_RESET_OTP_TTL_MINUTES", "5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	require.True(t, cfg.App.IsProduction())
	require.Equal(t, 24*time.Hour, cfg.Auth.SessionTTL())
	require.Equal(t, 5*time.Minute, cfg.Auth.ResetOTPTTL())
	require.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.App.AllowedOrigins)
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("AUTH_BCRYPT_COST", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 12, cfg.Auth.BcryptCost)
}

func TestAddr(t *testing.T) {
	a := AppConfig{Host: "127.0.0.1", Port: "9000"}
	require.Equal(t, "127.0.0.1:9000", a.Addr())
}
