package models

import "time"

// RefreshToken is one active session grant. The opaque Token value is
// single-use: a refresh consumes it and issues a replacement.
type RefreshToken struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}
