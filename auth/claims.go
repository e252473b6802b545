package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTClaims is the decoded payload of a token. The wire names are part of the
// public contract: decoders must ignore unknown fields, so additions here stay
// backwards compatible.
type JWTClaims struct {
	jwt.RegisteredClaims
	UID       string    `json:"user_id,omitempty"`
	TokenType TokenKind `json:"type,omitempty"`
}

// UserID returns the subject user id, preferring the explicit user_id claim.
func (c *JWTClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.RegisteredClaims.Subject
}

// UserUUID parses the subject user id.
func (c *JWTClaims) UserUUID() (uuid.UUID, error) {
	return uuid.Parse(c.UserID())
}

// Kind returns the token type claim.
func (c *JWTClaims) Kind() TokenKind {
	return c.TokenType
}

// Expires returns the expiration time, zero when the claim is absent.
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issue time, zero when the claim is absent.
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

func ensureTokenID(claims *jwt.RegisteredClaims) {
	if claims.ID == "" {
		claims.ID = uuid.NewString()
	}
}
