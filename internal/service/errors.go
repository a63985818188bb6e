package service

import (
	"net/http"

	apperrors "github.com/nimbus-works/identity-service/pkg/util"
)

// Closed set of expected, user-facing outcomes. Every orchestration
// operation fails with exactly one of these or with a DEPENDENCY_FAILURE
// wrapping an unexpected collaborator error.
var (
	ErrMissingFields      = apperrors.NewDomainError("MISSING_FIELDS", "required fields are missing", http.StatusBadRequest, nil)
	ErrDuplicateEmail     = apperrors.NewDomainError("DUPLICATE_EMAIL", "email already registered", http.StatusConflict, nil)
	ErrInvalidCredentials = apperrors.NewDomainError("INVALID_CREDENTIALS", "invalid email or password", http.StatusUnauthorized, nil)
	ErrNotFound           = apperrors.NewDomainError("NOT_FOUND", "user not found", http.StatusNotFound, nil)
	ErrAlreadyVerified    = apperrors.NewDomainError("ALREADY_VERIFIED", "account already verified", http.StatusConflict, nil)
	ErrInvalidOTP         = apperrors.NewDomainError("INVALID_OTP", "invalid OTP", http.StatusBadRequest, nil)
	ErrOTPExpired         = apperrors.NewDomainError("OTP_EXPIRED", "OTP expired", http.StatusBadRequest, nil)
	ErrEmailNotFound      = apperrors.NewDomainError("EMAIL_NOT_FOUND", "email not found", http.StatusNotFound, nil)
)

func dependencyFailure(dependency string, err error) error {
	return apperrors.NewDependencyFailure(dependency, err)
}
