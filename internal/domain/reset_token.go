package domain

import "time"

// ResetToken is a single-use, time-bounded credential authorizing one
// password change. Expiry is evaluated lazily at redemption time; tokens are
// never deleted by this service.
type ResetToken struct {
	ID        int64     `db:"id" json:"id"`
	Token     string    `db:"token" json:"-"`
	Email     string    `db:"email" json:"email"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	Used      bool      `db:"used" json:"used"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

func (t *ResetToken) Redeemable(now time.Time) bool {
	return !t.Used && now.Before(t.ExpiresAt)
}
