package services

import (
	"fmt"

	"github.com/alexedwards/argon2id"
)

type argon2idHasher struct {
	params *argon2id.Params
}

// NewPasswordHasher returns an argon2id-backed hasher. Each call to
// Hash draws a fresh random salt, and Verify compares in constant
// time regardless of where a mismatch occurs.
func NewPasswordHasher(params *argon2id.Params) PasswordHasher {
	if params == nil {
		params = argon2id.DefaultParams
	}
	return &argon2idHasher{params: params}
}

func (h *argon2idHasher) Hash(plaintext string) (string, error) {
	hash, err := argon2id.CreateHash(plaintext, h.params)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}

func (h *argon2idHasher) Verify(plaintext, hash string) (bool, error) {
	match, err := argon2id.ComparePasswordAndHash(plaintext, hash)
	if err != nil {
		return false, fmt.Errorf("failed to compare password and hash: %w", err)
	}
	return match, nil
}
