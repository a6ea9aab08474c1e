package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oakheart/signon/internal/signon/domain"
	"github.com/oakheart/signon/pkg/jwtx"
)

func TestVerify(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := newTestStore(t)
	signer := newTestSigner(t)

	verify := &VerifyService{
		Verifier: newTestVerifier(t, "signon"),
		Store:    st,
	}

	tokens := &TokenService{Signer: signer, Issuer: "signon", TTL: time.Hour}

	dir := &DirectoryService{Store: st}
	user, _, err := dir.Upsert(ctx, testAssertion())
	require.NoError(t, err)

	t.Run("fresh token for a registered user is valid", func(t *testing.T) {
		token, err := tokens.Issue(user.ID, user.GoogleID, user.Email)
		require.NoError(t, err)

		result, err := verify.Verify(ctx, token)
		require.NoError(t, err)
		require.Equal(t, domain.TokenValid, result)
		require.Equal(t, "valid", result.String())
	})

	t.Run("expired token", func(t *testing.T) {
		claims := jwtx.NewSessionClaims(user.ID, user.GoogleID, user.Email,
			time.Hour, "signon", time.Now().Add(-2*time.Hour))
		token, err := signer.Sign(claims)
		require.NoError(t, err)

		result, err := verify.Verify(ctx, token)
		require.NoError(t, err)
		require.Equal(t, domain.TokenExpired, result)
		require.Equal(t, "expired", result.String())
	})

	t.Run("tampered signature", func(t *testing.T) {
		token, err := tokens.Issue(user.ID, user.GoogleID, user.Email)
		require.NoError(t, err)

		flip := "A"
		if token[len(token)-1] == 'A' {
			flip = "B"
		}
		tampered := token[:len(token)-1] + flip

		result, err := verify.Verify(ctx, tampered)
		require.NoError(t, err)
		require.Equal(t, domain.TokenInvalid, result)
		require.Equal(t, "invalid", result.String())
	})

	t.Run("garbage input", func(t *testing.T) {
		result, err := verify.Verify(ctx, "definitely.not.a.token")
		require.NoError(t, err)
		require.Equal(t, domain.TokenInvalid, result)
	})

	t.Run("token for an unregistered email", func(t *testing.T) {
		token, err := tokens.Issue("ghost-id", 42, "ghost@example.com")
		require.NoError(t, err)

		result, err := verify.Verify(ctx, token)
		require.NoError(t, err)
		require.Equal(t, domain.TokenUserNotFound, result)
		require.Equal(t, "user not found", result.String())
	})

	t.Run("wrong issuer", func(t *testing.T) {
		claims := jwtx.NewSessionClaims(user.ID, user.GoogleID, user.Email,
			time.Hour, "someone-else", time.Now())
		token, err := signer.Sign(claims)
		require.NoError(t, err)

		result, err := verify.Verify(ctx, token)
		require.NoError(t, err)
		require.Equal(t, domain.TokenInvalid, result)
	})
}
