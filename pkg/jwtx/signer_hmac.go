package jwtx

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// MinHMACKeyBytes is the smallest key we accept for HMAC signing. Shorter
// keys make the token trivially brute-forceable.
const MinHMACKeyBytes = 32

// HMACSigner implements the Signer interface using HMAC-SHA with a shared
// symmetric key. Verification requires the same key, so these tokens are
// only verifiable by this service.
type HMACSigner struct {
	key    []byte
	method *jwt.SigningMethodHMAC
}

// newHMACSigner resolves the signing method by algorithm name and checks the
// key length. Only the HS family is accepted here; asymmetric algorithms
// need a different key handling story entirely.
func newHMACSigner(alg string, key []byte) (*HMACSigner, error) {
	method, err := hmacMethod(alg)
	if err != nil {
		return nil, err
	}

	if len(key) < MinHMACKeyBytes {
		return nil, fmt.Errorf("jwtx: HMAC key must be at least %d bytes, got %d", MinHMACKeyBytes, len(key))
	}

	return &HMACSigner{key: key, method: method}, nil
}

func hmacMethod(alg string) (*jwt.SigningMethodHMAC, error) {
	switch alg {
	case jwt.SigningMethodHS256.Alg():
		return jwt.SigningMethodHS256, nil
	case jwt.SigningMethodHS384.Alg():
		return jwt.SigningMethodHS384, nil
	case jwt.SigningMethodHS512.Alg():
		return jwt.SigningMethodHS512, nil
	default:
		return nil, fmt.Errorf("jwtx: unsupported HMAC algorithm %q", alg)
	}
}

func (s *HMACSigner) Alg() string { return s.method.Alg() }

// Sign takes your claims and turns them into a signed compact JWT string.
func (s *HMACSigner) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(s.method, claims)
	return t.SignedString(s.key)
}

// Validate does a quick sanity check to make sure we actually have a key.
func (s *HMACSigner) Validate() error {
	if len(s.key) == 0 {
		return errors.New("jwtx: empty HMAC key")
	}
	return nil
}
