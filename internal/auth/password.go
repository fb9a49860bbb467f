// Package auth gates the generator behind a single operator login: PBKDF2
// password verification, a failed-attempt lockout, and signed session
// tokens.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/pbkdf2"
)

const (
	DefaultIterations = 120000
	keyLen            = 32
	saltLen           = 16
)

var ErrInvalidCredentials = errors.New("invalid user name or password")

// Credentials is the configured operator account.
type Credentials struct {
	Username   string
	Salt       []byte
	Hash       []byte
	Iterations int
}

// HashPassword derives the PBKDF2-SHA256 key stored for a password.
func HashPassword(password string, salt []byte, iterations int) []byte {
	return pbkdf2.Key([]byte(password), salt, iterations, keyLen, sha256.New)
}

// NewSalt returns a random salt for HashPassword.
func NewSalt() ([]byte, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// Verify compares the user name exactly and the derived key in constant
// time.
func (c Credentials) Verify(username, password string) bool {
	if c.Username == "" || len(c.Hash) == 0 || username != c.Username {
		return false
	}
	iter := c.Iterations
	if iter <= 0 {
		iter = DefaultIterations
	}
	return subtle.ConstantTimeCompare(HashPassword(password, c.Salt, iter), c.Hash) == 1
}
