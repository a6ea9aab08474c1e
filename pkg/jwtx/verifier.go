package jwtx

import "errors"

// Verifier validates a session token and gives you back the claims if it's
// legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

var (
	ErrMalformed  = errors.New("jwtx: malformed token")
	ErrInvalidSig = errors.New("jwtx: invalid signature")

	ErrIssuer      = errors.New("jwtx: issuer mismatch")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
)

// NewVerifierHMAC creates a Verifier for HMAC-signed tokens using the same
// symmetric key as the signer.
func NewVerifierHMAC(alg string, key []byte, issuer string) (Verifier, error) {
	return newHMACVerifier(alg, key, issuer)
}
