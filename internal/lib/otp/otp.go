// Package otp generates the short-lived secrets used by the password-reset
// flow: a 6-digit one-time code sent by email and an opaque url-safe token
// exchanged for the final password change.
package otp

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"
)

// CodeLength is the number of digits in a reset code.
const CodeLength = 6

// GenerateCode returns a random numeric code of CodeLength digits.
func GenerateCode() (string, error) {
	const op = "otp.GenerateCode"
	code := make([]byte, CodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		code[i] = byte('0' + n.Int64())
	}
	return string(code), nil
}

// GenerateToken returns a 32-byte random token in url-safe base64.
func GenerateToken() (string, error) {
	const op = "otp.GenerateToken"
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
