package http

import (
	"net/http"
	"net/url"

	"github.com/oakheart/signon/internal/signon/domain"
	"github.com/oakheart/signon/internal/signon/service"
	"github.com/oakheart/signon/pkg/httpx"
)

// CallbackHandler receives the provider redirect, runs the login state
// machine, and hands control back to the client app via a deeplink
// redirect. The deeplink is always a redirect, even for failures; only a
// missing code parameter is answered as a plain client error.
type CallbackHandler struct {
	LoginService *service.LoginService
	Scheme       string
}

func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		httpx.WriteError(w, http.StatusBadRequest, "code parameter not provided")
		return
	}

	result := h.LoginService.Login(r.Context(), code)

	http.Redirect(w, r, h.deeplink(result), http.StatusFound)
}

// deeplink renders the outcome into the client app's URI scheme. The format
// is a fixed contract with the mobile client; the scheme prefix is the only
// configurable part.
func (h *CallbackHandler) deeplink(result service.LoginResult) string {
	switch result.Outcome {
	case domain.LoginCreated:
		return h.Scheme + "://status=created&token=" + url.QueryEscape(result.Token)
	case domain.LoginAuthenticated:
		return h.Scheme + "://status=authenticated&token=" + url.QueryEscape(result.Token)
	default:
		return h.Scheme + "://status=login_failed&error_code=500"
	}
}
