package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultSessionTokenTTL is the default lifetime for session tokens. Tokens
// are never renewed, so this is deliberately generous.
const DefaultSessionTokenTTL = 14 * 24 * time.Hour

// Claims are the session-token claims. The custom field names (user_id,
// google_id, user_email, event_id) are part of the token wire format that
// clients already depend on, so changes must stay additive.
type Claims struct {
	jwt.RegisteredClaims

	// UserID is the local user record id.
	UserID string `json:"user_id,omitempty"`

	// GoogleID is the numeric account id reported by the provider.
	GoogleID int64 `json:"google_id,omitempty"`

	// Email is the user's email as asserted by the provider. Verification
	// resolves the user through this claim.
	Email string `json:"user_email,omitempty"`

	// EventID is a random identifier minted per login, making every issued
	// token distinct even for the same user within the same second.
	EventID string `json:"event_id,omitempty"`
}

// NewSessionClaims builds minimally-correct claims for a freshly issued
// session token. The event id is a fresh UUIDv4 (128-bit random), so the
// collision probability across logins is negligible.
func NewSessionClaims(
	userID string,
	googleID int64,
	email string,
	ttl time.Duration,
	issuer string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:   userID,
		GoogleID: googleID,
		Email:    email,
		EventID:  uuid.NewString(),
	}
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't used
// before it is valid (nbf).
func (c *Claims) ValidateExpiry() error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}

	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}

	return nil
}
