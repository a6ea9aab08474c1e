// Package google implements the outbound OAuth2 leg against Google: the
// authorization-code-for-token exchange and the userinfo profile fetch.
package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultAuthEndpoint is where users are sent to grant consent.
	DefaultAuthEndpoint = "https://accounts.google.com/o/oauth2/auth"

	// DefaultTokenEndpoint exchanges an authorization code for tokens.
	DefaultTokenEndpoint = "https://oauth2.googleapis.com/token"

	// DefaultUserinfoEndpoint returns the profile for an access token.
	DefaultUserinfoEndpoint = "https://www.googleapis.com/oauth2/v1/userinfo"
)

// ProviderError is returned for any failure talking to Google: transport
// errors, non-2xx responses, and malformed bodies. The login flow treats it
// as terminal for the request; there are no retries.
type ProviderError struct {
	Op         string // "exchange" or "userinfo"
	StatusCode int    // zero when the request never completed
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("google: %s failed with status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("google: %s failed: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Assertion is the identity assertion Google returns after a successful
// exchange. Field names mirror the userinfo response body.
type Assertion struct {
	ID            int64  `json:"id,string"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Locale        string `json:"locale"`
	Picture       string `json:"picture"`
	VerifiedEmail bool   `json:"verified_email"`
}

// Config carries the OAuth2 client settings. Endpoints default to Google's
// production URLs and only need overriding in tests.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string

	AuthEndpoint     string
	TokenEndpoint    string
	UserinfoEndpoint string
}

// Client performs the identity exchange. It is stateless and safe for
// concurrent use.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient builds a Client from cfg, filling in default endpoints.
func NewClient(cfg Config) *Client {
	if cfg.AuthEndpoint == "" {
		cfg.AuthEndpoint = DefaultAuthEndpoint
	}
	if cfg.TokenEndpoint == "" {
		cfg.TokenEndpoint = DefaultTokenEndpoint
	}
	if cfg.UserinfoEndpoint == "" {
		cfg.UserinfoEndpoint = DefaultUserinfoEndpoint
	}

	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// AuthCodeURL returns the authorization URL a client should visit to start
// the flow. Scopes are fixed: openid plus profile and email userinfo, with
// offline access requested.
func (c *Client) AuthCodeURL() string {
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", c.cfg.ClientID)
	q.Set("redirect_uri", c.cfg.RedirectURI)
	q.Set("scope", "openid profile email")
	q.Set("access_type", "offline")

	return c.cfg.AuthEndpoint + "?" + q.Encode()
}

// tokenResponse is the subset of Google's token-endpoint body we consume.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// Exchange swaps an authorization code for an identity assertion: first the
// code-for-token exchange, then the userinfo fetch over the resulting access
// token. One or two outbound calls; any failure surfaces as *ProviderError.
func (c *Client) Exchange(ctx context.Context, code string) (Assertion, error) {
	token, err := c.fetchToken(ctx, code)
	if err != nil {
		return Assertion{}, err
	}

	return c.fetchUserinfo(ctx, token.AccessToken)
}

func (c *Client) fetchToken(ctx context.Context, code string) (tokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)
	form.Set("redirect_uri", c.cfg.RedirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return tokenResponse{}, &ProviderError{Op: "exchange", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return tokenResponse{}, &ProviderError{Op: "exchange", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return tokenResponse{}, &ProviderError{
			Op:         "exchange",
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	var token tokenResponse
	if err := decodeBody(resp.Body, &token); err != nil {
		return tokenResponse{}, &ProviderError{Op: "exchange", StatusCode: resp.StatusCode, Err: err}
	}
	if token.AccessToken == "" {
		return tokenResponse{}, &ProviderError{
			Op:         "exchange",
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("token response missing access_token"),
		}
	}

	return token, nil
}

func (c *Client) fetchUserinfo(ctx context.Context, accessToken string) (Assertion, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.UserinfoEndpoint, nil)
	if err != nil {
		return Assertion{}, &ProviderError{Op: "userinfo", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Assertion{}, &ProviderError{Op: "userinfo", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Assertion{}, &ProviderError{
			Op:         "userinfo",
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	var assertion Assertion
	if err := decodeBody(resp.Body, &assertion); err != nil {
		return Assertion{}, &ProviderError{Op: "userinfo", StatusCode: resp.StatusCode, Err: err}
	}
	if assertion.Email == "" {
		return Assertion{}, &ProviderError{
			Op:         "userinfo",
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("userinfo response missing email"),
		}
	}

	return assertion, nil
}

func decodeBody(r io.Reader, target any) error {
	body, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
