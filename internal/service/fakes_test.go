package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/nimbus-works/identity-service/internal/domain"
	"github.com/nimbus-works/identity-service/internal/repository"
)

// -------- test fakes --------

// fakeUserRepo is an in-memory UserRepository honoring the same atomicity
// rules as the Postgres implementation: consume methods only succeed when
// the stored code still matches.
type fakeUserRepo struct {
	byID   map[string]*domain.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[string]*domain.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	for _, u := range f.byID {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	f.nextID++
	user.ID = "user-" + strconv.Itoa(f.nextID)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	f.byID[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *u
	return &clone, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) StoreVerifyOTP(_ context.Context, id, code string, expiresAt time.Time) error {
	u, ok := f.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.VerifyOTP = code
	u.VerifyOTPExpiresAt = &expiresAt
	return nil
}

func (f *fakeUserRepo) ConsumeVerifyOTP(_ context.Context, id, code string) error {
	u, ok := f.byID[id]
	if !ok || u.VerifyOTP == "" || u.VerifyOTP != code {
		return pgx.ErrNoRows
	}
	u.IsVerified = true
	u.VerifyOTP = ""
	u.VerifyOTPExpiresAt = nil
	return nil
}

func (f *fakeUserRepo) StoreResetOTP(_ context.Context, id, code string, expiresAt time.Time) error {
	u, ok := f.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.ResetOTP = code
	u.ResetOTPExpiresAt = &expiresAt
	return nil
}

func (f *fakeUserRepo) ConsumeResetOTP(_ context.Context, id, code, newPasswordHash string) error {
	u, ok := f.byID[id]
	if !ok || u.ResetOTP == "" || u.ResetOTP != code {
		return pgx.ErrNoRows
	}
	u.PasswordHash = newPasswordHash
	u.ResetOTP = ""
	u.ResetOTPExpiresAt = nil
	return nil
}

// fakeMailer records sends and optionally fails.
type fakeMailer struct {
	sent []sentMail
	err  error
}

type sentMail struct {
	to      string
	subject string
	body    string
}

func (f *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

var errMailDown = errors.New("smtp connection refused")
