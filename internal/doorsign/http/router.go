package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/doorsign/internal/doorsign/service"
	"github.com/aussiebroadwan/doorsign/internal/doorsign/store"
	"github.com/aussiebroadwan/doorsign/pkg/httpx"
	"github.com/aussiebroadwan/doorsign/pkg/jwtx"
	"github.com/aussiebroadwan/doorsign/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	signer       *jwtx.Signer
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store         store.Store
	AuthService   *service.AuthService
	UserService   *service.UserService
	StatusService *service.StatusService
	OptionService *service.OptionService
	SyncService   *service.SyncService
}

func NewRouter(signer *jwtx.Signer, buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		signer:       signer,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerStatus()
	r.registerOptions()
	r.registerSync()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService, UserService: r.UserService}

	// POST /auth/login - strict rate limit by IP (authentication attempts)
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// GET /auth/user - who am I, lenient limit by user
	r.Mux.Handle("GET /v1/auth/user",
		httpx.Chain(http.HandlerFunc(h.HandleCurrentUser),
			httpx.AuthnMiddleware(r.signer),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{UserService: r.UserService}

	securedList := httpx.Chain(http.HandlerFunc(h.HandleList),
		httpx.AuthnMiddleware(r.signer),
		httpx.RateLimitByUser(httpx.LenientLimit),
	)
	securedGet := httpx.Chain(http.HandlerFunc(h.HandleGet),
		httpx.AuthnMiddleware(r.signer),
		httpx.RateLimitByUser(httpx.LenientLimit),
	)

	// POST /v1/users doubles as the first-run bootstrap endpoint, so the
	// authn middleware must tolerate a missing token: OptionalAuthn
	// injects the identity when a valid bearer token is present and
	// passes the request through anonymously otherwise. The service
	// enforces that the anonymous path only works on an empty store.
	securedCreate := httpx.Chain(http.HandlerFunc(h.HandleCreate),
		httpx.OptionalAuthnMiddleware(r.signer),
		httpx.RateLimitByIP(httpx.StrictLimit),
	)
	securedUpdate := httpx.Chain(http.HandlerFunc(h.HandleUpdate),
		httpx.AuthnMiddleware(r.signer),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)
	securedDelete := httpx.Chain(http.HandlerFunc(h.HandleDelete),
		httpx.AuthnMiddleware(r.signer),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)

	r.Mux.Handle("GET /v1/users", securedList)
	r.Mux.Handle("GET /v1/users/{id}", securedGet)
	r.Mux.Handle("POST /v1/users", securedCreate)
	r.Mux.Handle("PUT /v1/users/{id}", securedUpdate)
	r.Mux.Handle("DELETE /v1/users/{id}", securedDelete)
}

func (r *Router) registerStatus() {
	h := &StatusHandler{StatusService: r.StatusService}

	// POST /users/{id}/status - the hot path of the dashboard, moderate
	// limit by user so a stuck client cannot hammer the e-paper provider
	securedUpdate := httpx.Chain(http.HandlerFunc(h.HandleUpdate),
		httpx.AuthnMiddleware(r.signer),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)
	securedHistory := httpx.Chain(http.HandlerFunc(h.HandleHistory),
		httpx.AuthnMiddleware(r.signer),
		httpx.RateLimitByUser(httpx.LenientLimit),
	)

	r.Mux.Handle("POST /v1/users/{id}/status", securedUpdate)
	r.Mux.Handle("GET /v1/users/{id}/history", securedHistory)
}

func (r *Router) registerOptions() {
	h := &OptionsHandler{OptionService: r.OptionService}

	securedList := httpx.Chain(http.HandlerFunc(h.HandleList),
		httpx.AuthnMiddleware(r.signer),
		httpx.RateLimitByUser(httpx.LenientLimit),
	)
	securedCreate := httpx.Chain(http.HandlerFunc(h.HandleCreate),
		httpx.AuthnMiddleware(r.signer),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)
	securedUpdate := httpx.Chain(http.HandlerFunc(h.HandleUpdate),
		httpx.AuthnMiddleware(r.signer),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)
	securedDelete := httpx.Chain(http.HandlerFunc(h.HandleDelete),
		httpx.AuthnMiddleware(r.signer),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)

	r.Mux.Handle("GET /v1/status-options", securedList)
	r.Mux.Handle("POST /v1/status-options", securedCreate)
	r.Mux.Handle("PUT /v1/status-options/{id}", securedUpdate)
	r.Mux.Handle("DELETE /v1/status-options/{id}", securedDelete)
}

func (r *Router) registerSync() {
	h := &SyncHandler{SyncService: r.SyncService}

	// POST /sync - each run fans out to the provider, keep it strict
	securedRun := httpx.Chain(http.HandlerFunc(h.HandleRun),
		httpx.AuthnMiddleware(r.signer),
		httpx.RateLimitByUser(httpx.StrictLimit),
	)
	securedStatus := httpx.Chain(http.HandlerFunc(h.HandleStatus),
		httpx.AuthnMiddleware(r.signer),
		httpx.RateLimitByUser(httpx.LenientLimit),
	)

	r.Mux.Handle("POST /v1/sync", securedRun)
	r.Mux.Handle("GET /v1/sync/status", securedStatus)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits, monitoring may poll
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
