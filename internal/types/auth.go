package types

import "github.com/golang-jwt/jwt/v5"

// Claims represents the identity snapshot embedded in an access token
// at issuance. The status flags are informational only: they may grow
// stale over the token's lifetime, so authorization decisions are made
// against the live user record, never against these fields.
type Claims struct {
	Email                string `json:"email"`
	FirstName            string `json:"first_name"`
	LastName             string `json:"last_name"`
	Role                 string `json:"role"`
	IsDisabled           bool   `json:"is_disabled"`
	IsEmailVerified      bool   `json:"is_email_verified"`
	jwt.RegisteredClaims        // ExpiresAt, IssuedAt, Issuer, etc.
}
