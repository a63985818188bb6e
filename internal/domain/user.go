package domain

import "time"

// User is the domain model for an account holder. An empty VerifyOTP or
// ResetOTP string means no challenge of that kind is outstanding; an expired
// code is treated the same as an absent one by every read path and is only
// overwritten by the next request or cleared on a successful consume.
type User struct {
	ID                 string
	Name               string
	Email              string
	PasswordHash       string
	IsVerified         bool
	VerifyOTP          string
	VerifyOTPExpiresAt *time.Time
	ResetOTP           string
	ResetOTPExpiresAt  *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
