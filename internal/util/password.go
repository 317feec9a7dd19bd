package util

import "golang.org/x/crypto/bcrypt"

// VerifyPassword compares a raw password against a stored bcrypt hash.
// Hashing happens in the remote directories; this side only verifies.
// Any internal failure (malformed hash, empty input) yields false.
func VerifyPassword(raw, hash string) bool {
	if raw == "" || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)) == nil
}
