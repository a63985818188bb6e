package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nimbus-works/identity-service/internal/auth"
	"github.com/nimbus-works/identity-service/internal/config"
	"github.com/nimbus-works/identity-service/internal/events"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:          "test-secret",
		SessionTTLHours:    168,
		BcryptCost:         4, // min cost keeps the suite fast
		VerifyOTPTTLHours:  24,
		ResetOTPTTLMinutes: 15,
	}
}

func newAccountFixture(t *testing.T, mailer *fakeMailer) (*AccountService, *fakeUserRepo) {
	t.Helper()
	repo := newFakeUserRepo()
	dispatcher := events.NewInMemoryDispatcher()
	notifier := NewNotificationService(mailer, dispatcher, zap.NewNop())
	notifier.RegisterHandlers()
	return NewAccountService(testAuthConfig(), repo, dispatcher), repo
}

func TestRegister_Success(t *testing.T) {
	mailer := &fakeMailer{}
	svc, repo := newAccountFixture(t, mailer)

	user, token, exp, err := svc.Register(context.Background(), "Alice", "a@x.com", "pw123456")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.False(t, user.IsVerified)
	require.NotEqual(t, "pw123456", user.PasswordHash)
	require.WithinDuration(t, time.Now().Add(168*time.Hour), exp, time.Minute)

	require.NoError(t, auth.ComparePassword(user.PasswordHash, "pw123456"))
	require.Error(t, auth.ComparePassword(user.PasswordHash, "anything-else"))

	userID, err := svc.TokenManager().Verify(token)
	require.NoError(t, err)
	require.Equal(t, user.ID, userID)

	// welcome mail dispatched after the record commits
	require.Len(t, mailer.sent, 1)
	require.Equal(t, "a@x.com", mailer.sent[0].to)

	stored, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.Empty(t, stored.VerifyOTP)
	require.Empty(t, stored.ResetOTP)
}

func TestRegister_MissingFields(t *testing.T) {
	svc, _ := newAccountFixture(t, &fakeMailer{})

	_, _, _, err := svc.Register(context.Background(), "", "a@x.com", "pw")
	require.ErrorIs(t, err, ErrMissingFields)
	_, _, _, err = svc.Register(context.Background(), "Alice", "", "pw")
	require.ErrorIs(t, err, ErrMissingFields)
	_, _, _, err = svc.Register(context.Background(), "Alice", "a@x.com", "")
	require.ErrorIs(t, err, ErrMissingFields)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, repo := newAccountFixture(t, &fakeMailer{})

	_, _, _, err := svc.Register(context.Background(), "Alice", "a@x.com", "pw123456")
	require.NoError(t, err)

	_, _, _, err = svc.Register(context.Background(), "Alice Again", "a@x.com", "other-pw")
	require.ErrorIs(t, err, ErrDuplicateEmail)
	require.Len(t, repo.byID, 1)
}

func TestRegister_WelcomeMailFailureDoesNotFailRegistration(t *testing.T) {
	svc, _ := newAccountFixture(t, &fakeMailer{err: errMailDown})

	_, token, _, err := svc.Register(context.Background(), "Alice", "a@x.com", "pw123456")
	require.NoError(t, err)
	require.NotEmpty(t, token)
}

func TestLogin_Success(t *testing.T) {
	svc, _ := newAccountFixture(t, &fakeMailer{})

	registered, _, _, err := svc.Register(context.Background(), "Alice", "a@x.com", "pw123456")
	require.NoError(t, err)

	user, token, _, err := svc.Login(context.Background(), "a@x.com", "pw123456")
	require.NoError(t, err)
	require.Equal(t, registered.ID, user.ID)

	userID, err := svc.TokenManager().Verify(token)
	require.NoError(t, err)
	require.Equal(t, registered.ID, userID)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _ := newAccountFixture(t, &fakeMailer{})

	_, _, _, err := svc.Register(context.Background(), "Alice", "a@x.com", "pw123456")
	require.NoError(t, err)

	// wrong password and unknown email are indistinguishable
	_, _, _, err = svc.Login(context.Background(), "a@x.com", "wrongpw")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, _, err = svc.Login(context.Background(), "nobody@x.com", "pw123456")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_MissingFields(t *testing.T) {
	svc, _ := newAccountFixture(t, &fakeMailer{})

	_, _, _, err := svc.Login(context.Background(), "", "pw")
	require.ErrorIs(t, err, ErrMissingFields)
	_, _, _, err = svc.Login(context.Background(), "a@x.com", "")
	require.ErrorIs(t, err, ErrMissingFields)
}

func TestLogout_NoServerSideState(t *testing.T) {
	svc, _ := newAccountFixture(t, &fakeMailer{})
	require.NoError(t, svc.Logout(context.Background()))
}
