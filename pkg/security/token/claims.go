package token

import "time"

// Claims represents the token claims the identity middleware relies on.
type Claims struct {
	// UserID is the unique identifier of the user (subject).
	UserID string
	// Role is the user's role.
	Role string
	// Type is the token type (e.g., "access", "refresh").
	Type string
	// ExpiresAt is the time when the token expires.
	ExpiresAt time.Time
}

// IsAccess returns true if the token is an access token.
func (c *Claims) IsAccess() bool {
	return c.Type == "access"
}
