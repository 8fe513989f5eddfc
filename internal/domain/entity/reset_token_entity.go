package entity

import "time"

// PasswordResetToken is a single-use, time-bounded proof that its owner may
// set a new password without knowing the old one.
//
// At most one live token exists per user; issuing a new one replaces any
// previous token for the same user.
type PasswordResetToken struct {
	ID         string
	Token      string
	UserID     string
	ExpiryDate time.Time
	CreatedAt  time.Time
}

// Expired reports whether the token's expiry is in the past relative to now.
func (t *PasswordResetToken) Expired(now time.Time) bool {
	return t.ExpiryDate.Before(now)
}
