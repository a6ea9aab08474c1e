package http

import (
	"net/http"

	"github.com/oakheart/signon/internal/signon/google"
	"github.com/oakheart/signon/pkg/httpx"
)

// LoginURLHandler serves the entry point of the flow: it hands the client
// the Google authorization URL to visit.
type LoginURLHandler struct {
	Google *google.Client
}

func (h *LoginURLHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"url": h.Google.AuthCodeURL(),
	})
}
