// Package auth checks the shared admin secret.
package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashSecret generates a bcrypt hash of the secret, suitable for storing in
// config.yml instead of the plain value.
func HashSecret(secret string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	return string(bytes), err
}

// IsHash reports whether the configured secret is a bcrypt hash.
func IsHash(configured string) bool {
	return strings.HasPrefix(configured, "$2a$") ||
		strings.HasPrefix(configured, "$2b$") ||
		strings.HasPrefix(configured, "$2y$")
}

// CheckSecret compares a supplied secret with the configured one, which may
// be plain text or a bcrypt hash. An empty configured secret matches nothing.
func CheckSecret(given, configured string) bool {
	if configured == "" || given == "" {
		return false
	}
	if IsHash(configured) {
		return bcrypt.CompareHashAndPassword([]byte(configured), []byte(given)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(given), []byte(configured)) == 1
}
