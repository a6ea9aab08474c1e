package httpx

import (
	"errors"
	"net/http"
	"strings"
)

// ErrNoBearer reports a missing or malformed Authorization header.
var ErrNoBearer = errors.New("httpx: missing bearer token")

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme comparison is case-insensitive per RFC 9110.
func BearerToken(r *http.Request) (string, error) {
	authz := r.Header.Get("Authorization")
	if authz == "" {
		return "", ErrNoBearer
	}

	scheme, token, found := strings.Cut(authz, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrNoBearer
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrNoBearer
	}

	return token, nil
}
