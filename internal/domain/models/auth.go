package models

import "github.com/golang-jwt/jwt/v5"

// Claims represents the JWT claims accepted by the API.
// Only the subject is required; it identifies the session owner.
type Claims struct {
	jwt.RegisteredClaims        // Standard JWT claims (sub, iss, aud, exp, iat, etc.)
	Email                string `json:"email,omitempty"`
	Role                 string `json:"role,omitempty"` // "anon" tokens are rejected
}

// GetUserID returns the user ID from the JWT subject claim.
func (c *Claims) GetUserID() string {
	return c.Subject
}
