package userservice

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

const passwordCost = 10

var ErrPasswordPolicy = errors.New("password violates policy")

// NewPassword hashes plain with a fresh salt. The plaintext is not kept.
func NewPassword(plain string) (Password, error) {
	if utf8.RuneCountInString(plain) < MinLength {
		return Password{}, fmt.Errorf("%w: shorter than %d characters", ErrPasswordPolicy, MinLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), passwordCost)
	if err != nil {
		return Password{}, err
	}

	return Password{hash: hash}, nil
}

// Verify reports whether plain matches the stored hash.
func (p Password) Verify(plain string) bool {
	if len(p.hash) == 0 {
		return false
	}
	return bcrypt.CompareHashAndPassword(p.hash, []byte(plain)) == nil
}
