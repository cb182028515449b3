// Package otp generates and verifies the short one-time codes used for
// consent and login flows.
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// Hasher defines the hashing strategy for one-time codes.
type Hasher interface {
	Hash(code string) (string, error)
	Compare(hash, code string) error
}

// BcryptHasher hashes codes with bcrypt; comparison is constant-time.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates BcryptHasher with provided cost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash returns bcrypt hash for the provided code.
func (h *BcryptHasher) Hash(code string) (string, error) {
	encoded, err := bcrypt.GenerateFromPassword([]byte(code), h.cost)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// Compare checks a code against its stored hash.
func (h *BcryptHasher) Compare(hash, code string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code))
}

// GenerateCode returns a random numeric code of the given length.
func GenerateCode(digits int) (string, error) {
	if digits <= 0 {
		digits = 4
	}
	max := big.NewInt(1)
	for i := 0; i < digits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%0*d", digits, n), nil
}
