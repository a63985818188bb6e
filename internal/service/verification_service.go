package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/nimbus-works/identity-service/internal/auth"
	"github.com/nimbus-works/identity-service/internal/config"
	"github.com/nimbus-works/identity-service/internal/events"
	"github.com/nimbus-works/identity-service/internal/repository"
)

// VerificationService orchestrates the email verification OTP flow.
type VerificationService struct {
	users      repository.UserRepository
	notifier   *NotificationService
	dispatcher events.Dispatcher
	otpTTL     time.Duration
	now        func() time.Time
}

// NewVerificationService builds the service.
func NewVerificationService(cfg config.AuthConfig, users repository.UserRepository, notifier *NotificationService, dispatcher events.Dispatcher) *VerificationService {
	return &VerificationService{
		users:      users,
		notifier:   notifier,
		dispatcher: dispatcher,
		otpTTL:     cfg.VerifyOTPTTL(),
		now:        time.Now,
	}
}

// RequestOTP issues a fresh verification code and mails it. Delivery
// failure propagates to the caller: an undelivered code is useless and the
// caller needs to know to retry.
func (s *VerificationService) RequestOTP(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrMissingFields
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return dependencyFailure("user directory", err)
	}
	if user.IsVerified {
		return ErrAlreadyVerified
	}

	otp, err := auth.GenerateOTP()
	if err != nil {
		return dependencyFailure("otp generator", err)
	}

	expiresAt := s.now().Add(s.otpTTL)
	if err := s.users.StoreVerifyOTP(ctx, user.ID, otp, expiresAt); err != nil {
		return dependencyFailure("user directory", err)
	}

	if err := s.notifier.SendVerificationOTP(ctx, user.Email, otp); err != nil {
		return dependencyFailure("notification sender", err)
	}
	return nil
}

// Confirm checks a submitted code and flips the verified flag. Checks run
// existence, then match, then expiry: an expired-but-matching code reports
// expiry rather than mismatch. The flag flip and the code clear happen in
// one conditional update, so a consumed code cannot be replayed.
func (s *VerificationService) Confirm(ctx context.Context, userID, otp string) error {
	if userID == "" || otp == "" {
		return ErrMissingFields
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return dependencyFailure("user directory", err)
	}

	if err := checkOTP(user.VerifyOTP, user.VerifyOTPExpiresAt, otp, s.now()); err != nil {
		return err
	}

	if err := s.users.ConsumeVerifyOTP(ctx, user.ID, otp); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// lost a race with a concurrent consume or a newer code
			return ErrInvalidOTP
		}
		return dependencyFailure("user directory", err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventEmailVerified,
			UserID:    user.ID,
			Timestamp: s.now(),
			Payload:   events.EmailVerifiedPayload{Email: user.Email},
		})
	}
	return nil
}

// checkOTP applies the shared challenge rules: a code must be outstanding,
// match exactly, and not be past its expiry. Expired codes are treated as
// absent for authorization purposes but still report OTP_EXPIRED when they
// match, which tells the caller to request a new one.
func checkOTP(stored string, expiresAt *time.Time, submitted string, now time.Time) error {
	if stored == "" || stored != submitted {
		return ErrInvalidOTP
	}
	if expiresAt == nil || now.After(*expiresAt) {
		return ErrOTPExpired
	}
	return nil
}
