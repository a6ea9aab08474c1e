package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// HMACVerifier validates tokens signed with an HMAC-SHA algorithm. Errors
// from the underlying parser are folded into the package's closed error set
// so callers can classify outcomes with errors.Is instead of string checks.
type HMACVerifier struct {
	key    []byte
	method *jwt.SigningMethodHMAC
	issuer string
}

func newHMACVerifier(alg string, key []byte, issuer string) (*HMACVerifier, error) {
	method, err := hmacMethod(alg)
	if err != nil {
		return nil, err
	}

	if len(key) < MinHMACKeyBytes {
		return nil, errors.New("jwtx: HMAC key too short for verification")
	}

	return &HMACVerifier{key: key, method: method, issuer: issuer}, nil
}

// Verify validates the token string and returns its parsed Claims.
func (v *HMACVerifier) Verify(tokenStr string) (Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{v.method.Alg()}))

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return v.key, nil
	})
	if err != nil {
		return Claims{}, mapParseError(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Claims{}, ErrMalformed
	}

	if v.issuer != "" && claims.Issuer != v.issuer {
		return Claims{}, ErrIssuer
	}

	return *claims, nil
}

// mapParseError folds golang-jwt parse failures into our closed error set.
// Order matters: an expired but otherwise well-formed token must surface as
// expired, not as a generic parse failure.
func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrNotYetValid
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	default:
		return ErrMalformed
	}
}
