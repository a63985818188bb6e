package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nimbus-works/identity-service/internal/domain"
	"github.com/nimbus-works/identity-service/internal/events"
	apperrors "github.com/nimbus-works/identity-service/pkg/util"
)

func newVerificationFixture(t *testing.T, mailer *fakeMailer) (*VerificationService, *fakeUserRepo, *domain.User) {
	t.Helper()
	repo := newFakeUserRepo()
	dispatcher := events.NewInMemoryDispatcher()
	notifier := NewNotificationService(mailer, dispatcher, zap.NewNop())
	svc := NewVerificationService(testAuthConfig(), repo, notifier, dispatcher)

	user := &domain.User{Name: "Alice", Email: "a@x.com", PasswordHash: "$2a$04$fakehash"}
	require.NoError(t, repo.Create(context.Background(), user))
	return svc, repo, user
}

func TestVerificationRequestOTP_StoresCodeAndSendsMail(t *testing.T) {
	mailer := &fakeMailer{}
	svc, repo, user := newVerificationFixture(t, mailer)

	require.NoError(t, svc.RequestOTP(context.Background(), user.ID))

	stored, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, stored.VerifyOTP, 6)
	require.NotNil(t, stored.VerifyOTPExpiresAt)
	require.WithinDuration(t, time.Now().Add(24*time.Hour), *stored.VerifyOTPExpiresAt, time.Minute)

	require.Len(t, mailer.sent, 1)
	require.Equal(t, user.Email, mailer.sent[0].to)
	require.Contains(t, mailer.sent[0].body, stored.VerifyOTP)
}

func TestVerificationRequestOTP_AlreadyVerified(t *testing.T) {
	svc, repo, user := newVerificationFixture(t, &fakeMailer{})
	repo.byID[user.ID].IsVerified = true

	require.ErrorIs(t, svc.RequestOTP(context.Background(), user.ID), ErrAlreadyVerified)
}

func TestVerificationRequestOTP_UnknownUser(t *testing.T) {
	svc, _, _ := newVerificationFixture(t, &fakeMailer{})
	require.ErrorIs(t, svc.RequestOTP(context.Background(), "no-such-user"), ErrNotFound)
}

func TestVerificationRequestOTP_MailFailurePropagates(t *testing.T) {
	svc, _, user := newVerificationFixture(t, &fakeMailer{err: errMailDown})

	err := svc.RequestOTP(context.Background(), user.ID)
	require.Error(t, err)

	domainErr := apperrors.ToDomainError(err)
	require.Equal(t, "DEPENDENCY_FAILURE", domainErr.Code)
}

func TestVerificationConfirm_Success(t *testing.T) {
	svc, repo, user := newVerificationFixture(t, &fakeMailer{})
	require.NoError(t, svc.RequestOTP(context.Background(), user.ID))
	otp := repo.byID[user.ID].VerifyOTP

	require.NoError(t, svc.Confirm(context.Background(), user.ID, otp))

	stored := repo.byID[user.ID]
	require.True(t, stored.IsVerified)
	require.Empty(t, stored.VerifyOTP)
	require.Nil(t, stored.VerifyOTPExpiresAt)

	// the consumed code cannot be replayed
	require.ErrorIs(t, svc.Confirm(context.Background(), user.ID, otp), ErrInvalidOTP)
}

func TestVerificationConfirm_WrongCode(t *testing.T) {
	svc, repo, user := newVerificationFixture(t, &fakeMailer{})
	require.NoError(t, svc.RequestOTP(context.Background(), user.ID))

	wrong := "000000"
	if repo.byID[user.ID].VerifyOTP == wrong {
		wrong = "000001"
	}
	require.ErrorIs(t, svc.Confirm(context.Background(), user.ID, wrong), ErrInvalidOTP)
	require.False(t, repo.byID[user.ID].IsVerified)
}

func TestVerificationConfirm_NoOutstandingCode(t *testing.T) {
	svc, _, user := newVerificationFixture(t, &fakeMailer{})
	require.ErrorIs(t, svc.Confirm(context.Background(), user.ID, "123456"), ErrInvalidOTP)
}

func TestVerificationConfirm_Expired(t *testing.T) {
	svc, repo, user := newVerificationFixture(t, &fakeMailer{})
	require.NoError(t, svc.RequestOTP(context.Background(), user.ID))
	otp := repo.byID[user.ID].VerifyOTP

	svc.now = func() time.Time { return time.Now().Add(24*time.Hour + time.Minute) }

	// matching but expired reports expiry, not mismatch
	require.ErrorIs(t, svc.Confirm(context.Background(), user.ID, otp), ErrOTPExpired)
	require.False(t, repo.byID[user.ID].IsVerified)
}

func TestVerificationConfirm_MissingFields(t *testing.T) {
	svc, _, user := newVerificationFixture(t, &fakeMailer{})
	require.ErrorIs(t, svc.Confirm(context.Background(), "", "123456"), ErrMissingFields)
	require.ErrorIs(t, svc.Confirm(context.Background(), user.ID, ""), ErrMissingFields)
}
