package http

import (
	"net/http"

	"github.com/oakheart/signon/internal/signon/metrics"
	"github.com/oakheart/signon/internal/signon/service"
	"github.com/oakheart/signon/pkg/httpx"
	"github.com/oakheart/signon/pkg/slogx"
)

// VerifyHandler answers the token-verification path. The response body
// carries the classification label; clients switch on it rather than on the
// HTTP status, which is 200 for every classified verdict.
type VerifyHandler struct {
	VerifyService *service.VerifyService
	Collector     *metrics.Collector
}

func (h *VerifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	token, err := httpx.BearerToken(r)
	if err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid authorization header, please include a Bearer token")
		return
	}

	result, err := h.VerifyService.Verify(ctx, token)
	if err != nil {
		log.Error("token verification lookup failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if h.Collector != nil {
		h.Collector.RecordTokenVerdict(result)
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"detail": result.String()})
}
