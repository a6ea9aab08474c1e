package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/oakheart/signon/internal/signon/google"
	"github.com/oakheart/signon/internal/signon/metrics"
	"github.com/oakheart/signon/internal/signon/service"
	"github.com/oakheart/signon/internal/signon/store"
	"github.com/oakheart/signon/internal/signon/store/drivers/sqlite"
	"github.com/oakheart/signon/pkg/jwtx"
)

var testSigningKey = []byte("0123456789abcdef0123456789abcdef")

type testEnv struct {
	router *Router
	store  store.Store
	tokens *service.TokenService
}

// newTestEnv wires a full router against an in-memory store and a stubbed
// Google, the same shape app.New produces.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(":memory:", sqlite.Tables{})
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	signer, err := jwtx.NewSignerHMAC("HS256", testSigningKey)
	require.NoError(t, err)
	verifier, err := jwtx.NewVerifierHMAC("HS256", testSigningKey, "signon")
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at-test","token_type":"Bearer"}`))
	})
	mux.HandleFunc("GET /userinfo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"103456789012345678","email":"ada@example.com","verified_email":true,"name":"Ada Lovelace","given_name":"Ada","family_name":"Lovelace","locale":"en","picture":"https://lh3.example.com/p.jpg"}`))
	})
	provider := httptest.NewServer(mux)
	t.Cleanup(provider.Close)

	googleClient := google.NewClient(google.Config{
		ClientID:         "client-id",
		ClientSecret:     "client-secret",
		RedirectURI:      "https://api.example.com/oauth2callback",
		AuthEndpoint:     "https://accounts.google.com/o/oauth2/auth",
		TokenEndpoint:    provider.URL + "/token",
		UserinfoEndpoint: provider.URL + "/userinfo",
	})

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	tokens := &service.TokenService{Signer: signer, Issuer: "signon", TTL: time.Hour}

	router := NewRouter(
		signer,
		"v0.1.0-test",
		"app_deeplink",
		st,
		collector,
		registry,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	router.Google = googleClient
	router.LoginService = &service.LoginService{
		Provider:  googleClient,
		Directory: &service.DirectoryService{Store: st},
		Tokens:    tokens,
		Sessions:  &service.SessionService{Store: st},
		Metrics:   collector,
	}
	router.VerifyService = &service.VerifyService{Verifier: verifier, Store: st}
	router.ApplyRoutes()

	return &testEnv{router: router, store: st, tokens: tokens}
}

func (env *testEnv) do(t *testing.T, method, target, bearer string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestLoginURLEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/login/google", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeJSON(t, rec)
	u, err := url.Parse(body["url"])
	require.NoError(t, err)
	require.Equal(t, "accounts.google.com", u.Host)
	require.Equal(t, "code", u.Query().Get("response_type"))
	require.Equal(t, "client-id", u.Query().Get("client_id"))
}

func TestCallbackEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("missing code is a client error", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/oauth2callback", "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "code parameter not provided", decodeJSON(t, rec)["detail"])

		count, err := env.store.Users().CountUsers(ctx)
		require.NoError(t, err)
		require.Zero(t, count)
	})

	t.Run("first login redirects with created status", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/oauth2callback?code=auth-code", "")
		require.Equal(t, http.StatusFound, rec.Code)

		location := rec.Header().Get("Location")
		require.True(t, strings.HasPrefix(location, "app_deeplink://status=created&token="), location)

		token := strings.TrimPrefix(location, "app_deeplink://status=created&token=")
		_, err := env.store.Sessions().GetSessionByToken(ctx, token)
		require.NoError(t, err)
	})

	t.Run("second login redirects with authenticated status", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/oauth2callback?code=auth-code-2", "")
		require.Equal(t, http.StatusFound, rec.Code)

		location := rec.Header().Get("Location")
		require.True(t, strings.HasPrefix(location, "app_deeplink://status=authenticated&token="), location)

		count, err := env.store.Users().CountUsers(ctx)
		require.NoError(t, err)
		require.Equal(t, int64(1), count)
	})
}

func TestVerifyTokenEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	// Register a user the token can reference.
	reg := env.do(t, http.MethodGet, "/oauth2callback?code=auth-code", "")
	require.Equal(t, http.StatusFound, reg.Code)

	t.Run("missing bearer token", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/verify-token", "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "invalid authorization header, please include a Bearer token",
			decodeJSON(t, rec)["detail"])
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := env.tokens.Issue("some-id", 103456789012345678, "ada@example.com")
		require.NoError(t, err)

		rec := env.do(t, http.MethodPost, "/verify-token", token)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "valid", decodeJSON(t, rec)["detail"])
	})

	t.Run("tampered token", func(t *testing.T) {
		token, err := env.tokens.Issue("some-id", 103456789012345678, "ada@example.com")
		require.NoError(t, err)

		flip := "A"
		if token[len(token)-1] == 'A' {
			flip = "B"
		}

		rec := env.do(t, http.MethodPost, "/verify-token", token[:len(token)-1]+flip)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "invalid", decodeJSON(t, rec)["detail"])
	})

	t.Run("token for a user that no longer exists", func(t *testing.T) {
		token, err := env.tokens.Issue("ghost-id", 42, "ghost@example.com")
		require.NoError(t, err)

		rec := env.do(t, http.MethodPost, "/verify-token", token)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "user not found", decodeJSON(t, rec)["detail"])
	})
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	t.Run("livez", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/livez", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var body HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "ok", body.Status)
		require.Equal(t, "v0.1.0-test", body.Version)
	})

	t.Run("readyz", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/readyz", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var body HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "ok", body.Status)
		require.NotNil(t, body.Checks)
		require.Equal(t, "ok", body.Checks.Database)
		require.Equal(t, "ok", body.Checks.Signer)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	// Generate some traffic first.
	rec := env.do(t, http.MethodGet, "/oauth2callback?code=auth-code", "")
	require.Equal(t, http.StatusFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `signon_login_outcomes_total{outcome="created"} 1`)
	require.Contains(t, rec.Body.String(), "signon_http_responses_total")
}
