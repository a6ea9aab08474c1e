package jwtx

// Signer is our interface for anything that can sign session tokens.
type Signer interface {
	Alg() string
	Sign(Claims) (string, error)
	Validate() error
}

// NewSignerHMAC creates a symmetric signer for one of the HMAC-SHA
// algorithms (HS256, HS384, HS512).
func NewSignerHMAC(alg string, key []byte) (Signer, error) {
	return newHMACSigner(alg, key)
}
