package models

import "time"

// Session is the server-side state behind a session cookie. The token is an
// opaque random value; Redis expiry bounds its lifetime.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Role      UserRole  `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
