package util

import "github.com/google/uuid"

// NewResetTokenValue returns an unguessable opaque token value backed by 122
// bits of crypto/rand entropy.
func NewResetTokenValue() string {
	return uuid.NewString()
}
