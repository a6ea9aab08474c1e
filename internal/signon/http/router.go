package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/oakheart/signon/internal/signon/google"
	"github.com/oakheart/signon/internal/signon/metrics"
	"github.com/oakheart/signon/internal/signon/service"
	"github.com/oakheart/signon/internal/signon/store"
	"github.com/oakheart/signon/pkg/httpx"
	"github.com/oakheart/signon/pkg/jwtx"
	"github.com/oakheart/signon/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	signer         jwtx.Signer
	buildVersion   string
	deeplinkScheme string
	startTime      time.Time
	logger         *slog.Logger

	store     store.Store
	collector *metrics.Collector
	gatherer  prometheus.Gatherer

	Google        *google.Client
	LoginService  *service.LoginService
	VerifyService *service.VerifyService
}

func NewRouter(
	signer jwtx.Signer,
	buildVersion, deeplinkScheme string,
	st store.Store,
	collector *metrics.Collector,
	gatherer prometheus.Gatherer,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:            http.NewServeMux(),
		signer:         signer,
		buildVersion:   buildVersion,
		deeplinkScheme: deeplinkScheme,
		startTime:      time.Now(),
		store:          st,
		collector:      collector,
		gatherer:       gatherer,
		logger:         logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		MetricsMiddleware(r.collector),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	r.Mux.Handle("GET /login/google", &LoginURLHandler{Google: r.Google})

	r.Mux.Handle("GET /oauth2callback", &CallbackHandler{
		LoginService: r.LoginService,
		Scheme:       r.deeplinkScheme,
	})

	r.Mux.Handle("POST /verify-token", &VerifyHandler{
		VerifyService: r.VerifyService,
		Collector:     r.collector,
	})
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, r.signer))

	if r.gatherer != nil {
		r.Mux.Handle("GET /metrics", metrics.Handler(r.gatherer))
	}
}
