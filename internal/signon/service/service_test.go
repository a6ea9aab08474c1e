package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oakheart/signon/internal/signon/store"
	"github.com/oakheart/signon/internal/signon/store/drivers/sqlite"
	"github.com/oakheart/signon/pkg/jwtx"
)

var testSigningKey = []byte("0123456789abcdef0123456789abcdef")

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:", sqlite.Tables{})
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	return st
}

func newTestSigner(t *testing.T) jwtx.Signer {
	t.Helper()

	signer, err := jwtx.NewSignerHMAC("HS256", testSigningKey)
	require.NoError(t, err)
	return signer
}

func newTestVerifier(t *testing.T, issuer string) jwtx.Verifier {
	t.Helper()

	verifier, err := jwtx.NewVerifierHMAC("HS256", testSigningKey, issuer)
	require.NoError(t, err)
	return verifier
}
