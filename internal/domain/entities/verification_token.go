package entities

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// VerificationToken is a one-time code issued for a mobile number. Rows are
// never updated; a re-issue inserts a fresh row and older ones are superseded
// rather than deleted, so issuance history is retained.
type VerificationToken struct {
	ID        uint      `json:"id"`
	Mobile    string    `json:"mobile"`
	Token     string    `json:"token"`
	ExpiresAt null.Time `json:"expiresAt,omitempty"` // null means no expiry enforced
	CreatedAt time.Time `json:"createdAt"`
}

// Expired reports whether the token can no longer be redeemed. Tokens without
// an expiry never expire.
func (t *VerificationToken) Expired(now time.Time) bool {
	return t.ExpiresAt.Valid && !now.Before(t.ExpiresAt.Time)
}
