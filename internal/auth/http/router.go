package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/aussiebroadwan/gatehouse/api/auth" // Swagger docs
	"github.com/aussiebroadwan/gatehouse/internal/auth/cache"
	"github.com/aussiebroadwan/gatehouse/internal/auth/metrics"
	"github.com/aussiebroadwan/gatehouse/internal/auth/store"
	"github.com/aussiebroadwan/gatehouse/pkg/authsdk"
	"github.com/aussiebroadwan/gatehouse/pkg/httpx"
	"github.com/aussiebroadwan/gatehouse/pkg/jwtx"
	"github.com/aussiebroadwan/gatehouse/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux     *http.ServeMux
	handler http.Handler

	keys         *jwtx.KeySet
	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store   store.Store
	cache   cache.Cache
	metrics *metrics.Metrics

	Auth      *AuthHandler
	TwoFactor *TwoFactorHandler
	OAuth2    *OAuth2Handler
	Internal  *InternalHandler

	// Revocations backs the gateway's revoked-token check.
	Revocations httpx.RevocationChecker

	PrivateSecret  string
	AllowedOrigins []string
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	c cache.Cache,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Router {
	return &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		cache:        c,
		metrics:      m,
		logger:       logger,
	}
}

// ApplyRoutes registers every route and builds the global middleware chain.
// Handlers and Revocations must be set first.
func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerTwoFactor()
	r.registerOAuth2()
	r.registerInternal()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())

	r.handler = httpx.Chain(r.Mux,
		r.corsMiddleware(),
		slogx.HTTPMiddleware(r.logger),
		httpx.Authenticate(r.verifier, r.Revocations),
		r.metrics.HTTPMiddleware, // innermost so it can read the matched pattern
	)
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Gatehouse Authentication Service API
//	@version		0.1.0
//	@description	Account, session and federated login service issuing RS512-signed JWT access tokens
//	@description	and opaque refresh tokens.
//	@description
//	@description				Public keys for local verification are published at /.well-known/jwks.json.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/gatehouse
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
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

// corsMiddleware is nil (skipped by Chain) when no origins are configured.
func (r *Router) corsMiddleware() httpx.Middleware {
	if len(r.AllowedOrigins) == 0 {
		return nil
	}
	c := cors.New(cors.Options{
		AllowedOrigins: r.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodDelete,
			http.MethodGet,
			http.MethodPatch,
			http.MethodPost,
			http.MethodPut,
		},
		AllowedHeaders: []string{
			"Authorization",
			"Content-Type",
			authsdk.RefreshTokenHeader,
		},
		ExposedHeaders: []string{"X-Request-ID", "Retry-After"},
	})
	return c.Handler
}

func (r *Router) registerAuth() {
	h := r.Auth
	authed := func(fn http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
		return httpx.Chain(fn,
			httpx.RequireAuthentication(),
			httpx.RateLimitBySubject(limit),
		)
	}

	// Credential checks - strict, keyed by IP and the submitted email
	r.Mux.Handle("POST /auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "email"),
		),
	)
	r.Mux.Handle("POST /auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /auth/forgot-password",
		httpx.Chain(http.HandlerFunc(h.HandleForgotPassword),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "email"),
		),
	)
	r.Mux.Handle("POST /auth/reset-password",
		httpx.Chain(http.HandlerFunc(h.HandleResetPassword),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("GET /auth",
		httpx.Chain(http.HandlerFunc(h.HandleConfirmEmail),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// Refresh token exchanges
	r.Mux.Handle("PUT /auth/access",
		httpx.Chain(http.HandlerFunc(h.HandleAccess),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("PUT /auth/refresh",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("DELETE /auth/logout", authed(h.HandleLogout, httpx.ModerateLimit))
	r.Mux.Handle("PATCH /auth/change-email", authed(h.HandleChangeEmail, httpx.StrictLimit))
	// Four digit codes - keep guesses scarce
	r.Mux.Handle("PATCH /auth/confirm-change-email", authed(h.HandleConfirmChangeEmail, httpx.StrictLimit))
}

func (r *Router) registerTwoFactor() {
	h := r.TwoFactor

	r.Mux.Handle("POST /2fa/setup",
		httpx.Chain(http.HandlerFunc(h.HandleSetup),
			httpx.RequireAuthentication(),
			httpx.RateLimitBySubject(httpx.ModerateLimit),
		),
	)
	// Strict rate limits on code checks (prevent brute force of TOTP codes)
	r.Mux.Handle("POST /2fa/verify",
		httpx.Chain(http.HandlerFunc(h.HandleVerify),
			httpx.RequireAuthentication(),
			httpx.RateLimitBySubject(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /2fa/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "email"),
		),
	)
}

func (r *Router) registerOAuth2() {
	h := r.OAuth2

	r.Mux.Handle("GET /oauth2/authorization/{provider}",
		httpx.Chain(http.HandlerFunc(h.HandleAuthorization),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /login/oauth2/code/{provider}",
		httpx.Chain(http.HandlerFunc(h.HandleCallback),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerInternal() {
	r.Mux.Handle("GET /internal/users/{email}",
		httpx.Chain(http.HandlerFunc(r.Internal.HandleLookupUser),
			httpx.RequirePrivateSecret(r.PrivateSecret),
		),
	)
}

func (r *Router) registerSystem() {
	// GET /jwks.json - public endpoint with high limit
	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(JWKSHandler(r.keys),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)

	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.cache, r.keys),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	if r.metrics != nil {
		r.Mux.Handle("GET /metrics", r.metrics.Handler())
	}
}
