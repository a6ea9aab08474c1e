package service

import (
	"time"

	"github.com/oakheart/signon/pkg/jwtx"
)

// TokenService mints signed session tokens. It has no persistence side
// effects; recording the token against a user is SessionService's job.
type TokenService struct {
	Signer jwtx.Signer
	Issuer string
	TTL    time.Duration
}

// Issue builds the session claim set for the user and signs it. Each call
// mints a distinct token even for identical inputs because the event id and
// issuance timestamp are fresh; tokens are bearer credentials, not
// idempotent artifacts.
func (s *TokenService) Issue(userID string, googleID int64, email string) (string, error) {
	ttl := s.TTL
	if ttl <= 0 {
		ttl = jwtx.DefaultSessionTokenTTL
	}

	claims := jwtx.NewSessionClaims(userID, googleID, email, ttl, s.Issuer, time.Now().UTC())
	return s.Signer.Sign(claims)
}
