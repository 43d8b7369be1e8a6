package models

import "time"

// PasswordResetToken is a single-use reset credential. Used flips false→true
// exactly once; consumed tokens are kept as an audit trail rather than deleted.
type PasswordResetToken struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
	Used      bool
}
