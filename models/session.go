package models

import "time"

// Session is an issued bearer session. Sessions live in memory only; the
// identity itself belongs to the external OAuth provider.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session lapsed as of now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
