package otp

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Hasher keeps codes out of storage in plain text.
type Hasher interface {
	Hash(code string) (string, error)
	Compare(hash, code string) error
}

// BcryptHasher implements Hasher using bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a bcrypt-backed hasher. Zero cost means bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash converts a code into a bcrypt hash.
func (h *BcryptHasher) Hash(code string) (string, error) {
	if code == "" {
		return "", errors.New("otp: empty code")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Compare checks a submitted code against a stored hash.
func (h *BcryptHasher) Compare(hash, code string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code))
}
