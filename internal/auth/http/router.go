package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/orgauth/internal/auth/service"
	"github.com/aussiebroadwan/orgauth/internal/auth/store"
	"github.com/aussiebroadwan/orgauth/pkg/httpx"
	"github.com/aussiebroadwan/orgauth/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store
	gatherer     prometheus.Gatherer

	IDs                 service.IDGenerator
	TokenService        *service.TokenService
	AuthService         *service.AuthService
	OrganisationService *service.OrganisationService
	InviteService       *service.InviteService

	// Rate limits for credential and mail-sending endpoints. Zero values
	// fall back to httpx.StrictLimit and httpx.ModerateLimit.
	CredentialLimit httpx.RateLimitConfig
	InviteLimit     httpx.RateLimitConfig
}

func NewRouter(
	buildVersion string,
	st store.Store,
	gatherer prometheus.Gatherer,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		gatherer:     gatherer,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	if r.CredentialLimit.RequestsPerWindow == 0 {
		r.CredentialLimit = httpx.StrictLimit
	}
	if r.InviteLimit.RequestsPerWindow == 0 {
		r.InviteLimit = httpx.ModerateLimit
	}

	r.registerAuth()
	r.registerOrganisations()
	r.registerInvites()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService, IDs: r.IDs, SessionTTL: r.TokenService.SessionTTL()}

	// Credential endpoints - strict rate limit by IP (brute force prevention)
	r.Mux.Handle("POST /v1/auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(r.CredentialLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(r.CredentialLimit),
		),
	)
}

func (r *Router) registerOrganisations() {
	h := &OrganisationsHandler{OrganisationService: r.OrganisationService}
	session := httpx.SessionMiddleware(r.TokenService)

	r.Mux.Handle("POST /v1/organisations", httpx.Chain(http.HandlerFunc(h.HandleSetup), session))
	r.Mux.Handle("GET /v1/organisations", httpx.Chain(http.HandlerFunc(h.HandleList), session))
	r.Mux.Handle("GET /v1/organisations/{id}", httpx.Chain(http.HandlerFunc(h.HandleGet), session))
	r.Mux.Handle("POST /v1/organisations/{id}", httpx.Chain(http.HandlerFunc(h.HandleUpdate), session))
}

func (r *Router) registerInvites() {
	h := &InvitesHandler{InviteService: r.InviteService, TokenService: r.TokenService}

	// POST /organisations/{id}/invites - moderate rate limit by session (sends mail)
	r.Mux.Handle("POST /v1/organisations/{id}/invites",
		httpx.Chain(http.HandlerFunc(h.HandleInvite),
			httpx.SessionMiddleware(r.TokenService),
			httpx.RateLimitBySession(r.InviteLimit),
		),
	)

	// POST /invites/inspect - public, the invite token is the credential
	r.Mux.Handle("POST /v1/invites/inspect",
		httpx.Chain(http.HandlerFunc(h.HandleInspect),
			httpx.RateLimitByIP(r.CredentialLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
	r.Mux.Handle("GET /metrics", promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{}))
}
