// Package otp issues and checks phone verification codes.
package otp

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

// DefaultCodeLength is the number of digits in a code.
const DefaultCodeLength = 6

// GenerateCode returns a uniformly random numeric code of n digits.
func GenerateCode(n int) (string, error) {
	if n <= 0 {
		return "", errors.New("otp: code length must be positive")
	}
	var b strings.Builder
	b.Grow(n)
	ten := big.NewInt(10)
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + d.Int64()))
	}
	return b.String(), nil
}
