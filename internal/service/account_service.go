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

// AccountService coordinates registration and login flows.
type AccountService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
	tokenMgr   *auth.TokenManager
	bcryptCost int
	now        func() time.Time
}

// NewAccountService builds the service.
func NewAccountService(cfg config.AuthConfig, users repository.UserRepository, dispatcher events.Dispatcher) *AccountService {
	return &AccountService{
		users:      users,
		dispatcher: dispatcher,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL()),
		bcryptCost: cfg.BcryptCost,
		now:        time.Now,
	}
}

// Register creates a new account and issues a session token. The welcome
// notification is dispatched as an event after the record commits, so its
// delivery can never fail the registration itself.
func (s *AccountService) Register(ctx context.Context, name, email, password string) (*domain.User, string, time.Time, error) {
	if name == "" || email == "" || password == "" {
		return nil, "", time.Time{}, ErrMissingFields
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, ErrDuplicateEmail
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, dependencyFailure("user directory", err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, dependencyFailure("password hasher", err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, "", time.Time{}, ErrDuplicateEmail
		}
		return nil, "", time.Time{}, dependencyFailure("user directory", err)
	}

	token, exp, err := s.tokenMgr.Issue(user.ID)
	if err != nil {
		return nil, "", time.Time{}, dependencyFailure("token issuer", err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventUserRegistered,
			UserID:    user.ID,
			Timestamp: s.now(),
			Payload:   events.UserRegisteredPayload{Name: user.Name, Email: user.Email},
		})
	}

	return user, token, exp, nil
}

// Login authenticates by email and password. Unknown email and wrong
// password surface as the same outcome so the endpoint cannot be used to
// enumerate accounts.
func (s *AccountService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	if email == "" || password == "" {
		return nil, "", time.Time{}, ErrMissingFields
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, ErrInvalidCredentials
		}
		return nil, "", time.Time{}, dependencyFailure("user directory", err)
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, exp, err := s.tokenMgr.Issue(user.ID)
	if err != nil {
		return nil, "", time.Time{}, dependencyFailure("token issuer", err)
	}
	return user, token, exp, nil
}

// Logout is advisory for stateless session tokens; the transport layer
// discards the client-held credential.
func (s *AccountService) Logout(_ context.Context) error {
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AccountService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
