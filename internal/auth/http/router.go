package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/guildhall/internal/auth/service"
	"github.com/aussiebroadwan/guildhall/internal/auth/store"
	"github.com/aussiebroadwan/guildhall/pkg/httpx"
	"github.com/aussiebroadwan/guildhall/pkg/jwtx"
	"github.com/aussiebroadwan/guildhall/pkg/slogx"

	_ "github.com/aussiebroadwan/guildhall/api/session" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeyManager
	serviceToken string
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store          store.Store
	SessionService *service.SessionService
	UserService    *service.UserService

	// Clock defaults to time.Now.
	Clock func() time.Time
}

func NewRouter(
	keys *jwtx.KeyManager,
	serviceToken, buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		serviceToken: serviceToken,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSessions()
	r.registerUsers()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Guildhall Session Service API
//	@version		0.1.0
//	@description	Issues, rotates and revokes sessions for the Guildhall community platform.
//	@description
//	@description				A session is a short-lived JWT access token paired with a single-use refresh token.
//	@description				Public keys for stateless verification are published at /.well-known/jwks.json.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/guildhall
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
//
//	@securityDefinitions.apikey	ServiceToken
//	@in							header
//	@name						Authorization
//	@description				Shared platform service token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerSessions() {
	h := &SessionsHandler{
		Sessions: r.SessionService,
		Users:    r.UserService,
		Clock:    r.Clock,
	}
	requireService := httpx.RequireServiceToken(r.serviceToken)

	// POST /sessions - platform services only
	r.Mux.Handle("POST /v1/sessions",
		httpx.Chain(http.HandlerFunc(h.HandleIssue),
			httpx.RateLimitByIP(httpx.LenientLimit),
			requireService,
		),
	)

	// POST /sessions/refresh - strict, a leaked refresh token is worth probing
	r.Mux.Handle("POST /v1/sessions/refresh",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /sessions/revoke - public, always 200
	r.Mux.Handle("POST /v1/sessions/revoke",
		httpx.Chain(http.HandlerFunc(h.HandleRevoke),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("POST /v1/users/{id}/sessions/revoke",
		httpx.Chain(http.HandlerFunc(h.HandleRevokeAll),
			httpx.RateLimitByIPAndPathValue(httpx.ModerateLimit, "id"),
			requireService,
		),
	)

	r.Mux.Handle("POST /v1/sessions/purge",
		httpx.Chain(http.HandlerFunc(h.HandlePurge),
			httpx.RateLimitByIP(httpx.ModerateLimit),
			requireService,
		),
	)

	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(JWKSHandler(r.keys.KeySet),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerUsers() {
	users := &UsersHandler{Users: r.UserService}
	me := &MeHandler{Sessions: r.SessionService}

	r.Mux.Handle("PUT /v1/users/{id}",
		httpx.Chain(http.HandlerFunc(users.HandleSync),
			httpx.RateLimitByIP(httpx.LenientLimit),
			httpx.RequireServiceToken(r.serviceToken),
		),
	)

	r.Mux.Handle("GET /v1/me",
		httpx.Chain(me,
			httpx.AuthnMiddleware(r.keys.Verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys.KeySet),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
