package crypto

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is the default bcrypt cost
	DefaultCost = 12

	// MaxVerificationCodeLength matches the width of the token column
	MaxVerificationCodeLength = 10
)

var (
	bcryptGenerateFromPassword = bcrypt.GenerateFromPassword
	randomInt                  = rand.Int
)

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcryptGenerateFromPassword([]byte(password), DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// CheckPassword compares a password with a hash
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateNumericCode generates a random decimal code of the given length,
// clamped to MaxVerificationCodeLength. Leading zeros are allowed.
func GenerateNumericCode(length int) (string, error) {
	if length < 1 {
		length = 1
	}
	if length > MaxVerificationCodeLength {
		length = MaxVerificationCodeLength
	}

	code := make([]byte, length)
	for i := range code {
		n, err := randomInt(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate verification code: %w", err)
		}
		code[i] = byte('0' + n.Int64())
	}
	return string(code), nil
}
