package auth

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

const (
	otpMin  = 100000
	otpSpan = 900000
)

// GenerateOTP produces a single-use 6-digit code drawn uniformly from
// [100000, 999999]. Codes are handled as opaque strings; equality is exact
// string match.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpSpan))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(otpMin+n.Int64(), 10), nil
}
