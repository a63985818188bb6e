package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nimbus-works/identity-service/internal/domain"
)

// ErrDuplicateEmail reports a unique violation on the email column.
var ErrDuplicateEmail = errors.New("email already registered")

// UserRepository defines persistence access for user accounts. OTP
// consumption methods are single conditional statements so that a code is
// cleared atomically with the state change it authorizes; two concurrent
// consumers cannot both succeed.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	StoreVerifyOTP(ctx context.Context, id, code string, expiresAt time.Time) error
	ConsumeVerifyOTP(ctx context.Context, id, code string) error
	StoreResetOTP(ctx context.Context, id, code string, expiresAt time.Time) error
	ConsumeResetOTP(ctx context.Context, id, code, newPasswordHash string) error
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, name, email, password_hash, is_verified,
        verify_otp, verify_otp_expires_at, reset_otp, reset_otp_expires_at,
        created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (name, email, password_hash)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `
        SELECT ` + userColumns + `
        FROM users WHERE id=$1`
	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
        SELECT ` + userColumns + `
        FROM users WHERE email=$1`
	return r.scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *userRepository) StoreVerifyOTP(ctx context.Context, id, code string, expiresAt time.Time) error {
	const query = `
        UPDATE users SET verify_otp=$2, verify_otp_expires_at=$3, updated_at=NOW()
        WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id, code, expiresAt)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ConsumeVerifyOTP flips the verified flag and clears the challenge in one
// statement. pgx.ErrNoRows means the code was already consumed or replaced.
func (r *userRepository) ConsumeVerifyOTP(ctx context.Context, id, code string) error {
	const query = `
        UPDATE users SET is_verified=TRUE, verify_otp='',
            verify_otp_expires_at=NULL, updated_at=NOW()
        WHERE id=$1 AND verify_otp=$2 AND verify_otp <> ''`
	cmd, err := r.pool.Exec(ctx, query, id, code)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) StoreResetOTP(ctx context.Context, id, code string, expiresAt time.Time) error {
	const query = `
        UPDATE users SET reset_otp=$2, reset_otp_expires_at=$3, updated_at=NOW()
        WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id, code, expiresAt)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ConsumeResetOTP swaps the password hash and clears the challenge in one
// statement, preventing replay of the same code.
func (r *userRepository) ConsumeResetOTP(ctx context.Context, id, code, newPasswordHash string) error {
	const query = `
        UPDATE users SET password_hash=$3, reset_otp='',
            reset_otp_expires_at=NULL, updated_at=NOW()
        WHERE id=$1 AND reset_otp=$2 AND reset_otp <> ''`
	cmd, err := r.pool.Exec(ctx, query, id, code, newPasswordHash)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.IsVerified,
		&user.VerifyOTP,
		&user.VerifyOTPExpiresAt,
		&user.ResetOTP,
		&user.ResetOTPExpiresAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
