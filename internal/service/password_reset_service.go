package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/nimbus-works/identity-service/internal/auth"
	"github.com/nimbus-works/identity-service/internal/config"
	"github.com/nimbus-works/identity-service/internal/domain"
	"github.com/nimbus-works/identity-service/internal/events"
	"github.com/nimbus-works/identity-service/internal/repository"
)

// PasswordResetService orchestrates the reset OTP flow and the password
// replacement it gates.
type PasswordResetService struct {
	users      repository.UserRepository
	notifier   *NotificationService
	dispatcher events.Dispatcher
	bcryptCost int
	otpTTL     time.Duration
	now        func() time.Time
}

// NewPasswordResetService builds the service.
func NewPasswordResetService(cfg config.AuthConfig, users repository.UserRepository, notifier *NotificationService, dispatcher events.Dispatcher) *PasswordResetService {
	return &PasswordResetService{
		users:      users,
		notifier:   notifier,
		dispatcher: dispatcher,
		bcryptCost: cfg.BcryptCost,
		otpTTL:     cfg.ResetOTPTTL(),
		now:        time.Now,
	}
}

// RequestOTP issues a reset code for the account behind the email and mails
// it. Delivery failure propagates, same as for verification codes.
func (s *PasswordResetService) RequestOTP(ctx context.Context, email string) error {
	if email == "" {
		return ErrMissingFields
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrEmailNotFound
		}
		return dependencyFailure("user directory", err)
	}

	otp, err := auth.GenerateOTP()
	if err != nil {
		return dependencyFailure("otp generator", err)
	}

	expiresAt := s.now().Add(s.otpTTL)
	if err := s.users.StoreResetOTP(ctx, user.ID, otp, expiresAt); err != nil {
		return dependencyFailure("user directory", err)
	}

	if err := s.notifier.SendResetOTP(ctx, user.Email, otp); err != nil {
		return dependencyFailure("notification sender", err)
	}
	return nil
}

// VerifyOTP is a read-only pre-check so a UI can advance before asking for
// the new password. It never consumes the code.
func (s *PasswordResetService) VerifyOTP(ctx context.Context, email, otp string) error {
	if email == "" || otp == "" {
		return ErrMissingFields
	}

	user, err := s.loadByEmail(ctx, email)
	if err != nil {
		return err
	}
	return checkOTP(user.ResetOTP, user.ResetOTPExpiresAt, otp, s.now())
}

// CompleteReset re-validates the code from scratch; a prior VerifyOTP call
// proves nothing since no state changed in between. On success the new hash
// replaces the old one and the code is cleared in a single conditional
// update, and the write is awaited before success is reported.
func (s *PasswordResetService) CompleteReset(ctx context.Context, email, otp, newPassword string) error {
	if email == "" || otp == "" || newPassword == "" {
		return ErrMissingFields
	}

	user, err := s.loadByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := checkOTP(user.ResetOTP, user.ResetOTPExpiresAt, otp, s.now()); err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return dependencyFailure("password hasher", err)
	}

	if err := s.users.ConsumeResetOTP(ctx, user.ID, otp, hash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// lost a race with a concurrent reset or a newer code
			return ErrInvalidOTP
		}
		return dependencyFailure("user directory", err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventPasswordReset,
			UserID:    user.ID,
			Timestamp: s.now(),
			Payload:   events.PasswordResetPayload{Email: user.Email},
		})
	}
	return nil
}

func (s *PasswordResetService) loadByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, dependencyFailure("user directory", err)
	}
	return user, nil
}
