package security

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

const (
	verificationCodeMin   = 100000
	verificationCodeRange = 900000

	// ResetTokenBytes is the entropy of a password reset token (40 hex chars).
	ResetTokenBytes = 20
)

// GenerateVerificationCode returns a random 6-digit numeric code.
func GenerateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(verificationCodeRange))
	if err != nil {
		return "", fmt.Errorf("generate verification code: %w", err)
	}

	return fmt.Sprintf("%06d", n.Int64()+verificationCodeMin), nil
}

// GenerateResetToken returns a random hex encoded password reset token.
func GenerateResetToken() (string, error) {
	bytes := make([]byte, ResetTokenBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}

	return hex.EncodeToString(bytes), nil
}
