package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/foodcodes/internal/accounts/media"
	"github.com/aussiebroadwan/foodcodes/internal/accounts/service"
	"github.com/aussiebroadwan/foodcodes/internal/accounts/store"
	"github.com/aussiebroadwan/foodcodes/pkg/httpx"
	"github.com/aussiebroadwan/foodcodes/pkg/jwtx"
	"github.com/aussiebroadwan/foodcodes/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/aussiebroadwan/foodcodes/api/accounts" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store   store.Store
	avatars media.Store

	RegistrationService *service.RegistrationService
	ActivationService   *service.ActivationService
	SessionService      *service.SessionService
	ProfileService      *service.ProfileService

	// LoginURL and ProfileURL are where browser clients are sent after an
	// outcome message has been stored in the flash cookie.
	LoginURL   string
	ProfileURL string

	// SecureCookies marks session cookies Secure; set it behind HTTPS.
	SecureCookies bool

	// MaxUploadBytes bounds the profile form body, avatar included.
	MaxUploadBytes int64
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	avatars media.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:            http.NewServeMux(),
		keys:           keys,
		verifier:       verifier,
		buildVersion:   buildVersion,
		startTime:      time.Now(),
		logger:         logger,
		store:          st,
		avatars:        avatars,
		LoginURL:       "/login",
		ProfileURL:     "/profile",
		MaxUploadBytes: 6 << 20,
	}

	// Metrics sit inside logging so both see the matched route pattern.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.MetricsMiddleware(),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAccounts()
	r.registerSessions()
	r.registerProfile()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Foodcodes Accounts API
//	@version		0.1.0
//	@description	Account registration, email activation, sessions and profile editing.
//	@description
//	@description	Endpoints answer with JSON when the request sends "Accept: application/json".
//	@description	Other clients receive a flash cookie and a 303 redirect.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/foodcodes
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
//	@description				Session token from POST /v1/sessions. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAccounts() {
	register := &RegisterHandler{RegistrationService: r.RegistrationService, LoginURL: r.LoginURL}
	activate := &ActivateHandler{ActivationService: r.ActivationService, LoginURL: r.LoginURL}
	resend := &ResendHandler{RegistrationService: r.RegistrationService, LoginURL: r.LoginURL}

	// Registration and activation are not rate limited; the activation
	// token space is too large to guess.
	r.Mux.Handle("POST /v1/accounts/register", register)
	r.Mux.Handle("GET /v1/accounts/activate/{uidb64}/{token}", activate)

	// Resend sends mail, so it is limited per address as well as per IP.
	r.Mux.Handle("POST /v1/accounts/activation/resend",
		httpx.Chain(resend,
			httpx.RateLimit(httpx.LoginLimit, httpx.CompositeKeyExtractor(":",
				httpx.IPKeyExtractor,
				httpx.FormFieldKeyExtractor("email"),
			)),
		),
	)
}

func (r *Router) registerSessions() {
	h := &SessionHandler{
		SessionService: r.SessionService,
		ProfileURL:     r.ProfileURL,
		LoginURL:       r.LoginURL,
		SecureCookies:  r.SecureCookies,
	}

	// POST /sessions - strict limit by IP + username against brute force
	r.Mux.Handle("POST /v1/sessions",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimit(httpx.LoginLimit, httpx.CompositeKeyExtractor(":",
				httpx.IPKeyExtractor,
				httpx.FormFieldKeyExtractor("username"),
			)),
		),
	)
	r.Mux.Handle("POST /v1/sessions/logout", http.HandlerFunc(h.HandleLogout))
}

func (r *Router) registerProfile() {
	h := &ProfileHandler{
		ProfileService: r.ProfileService,
		ProfileURL:     r.ProfileURL,
		MaxUploadBytes: r.MaxUploadBytes,
	}

	secured := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.RequireSession(r.verifier, r.LoginURL),
			httpx.RateLimit(httpx.ProfileLimit, httpx.AccountKeyExtractor),
		)
	}

	r.Mux.Handle("GET /v1/profile", secured(h.HandleGet))
	r.Mux.Handle("POST /v1/profile", secured(h.HandleUpdate))

	r.Mux.Handle("GET "+service.AvatarPathPrefix+"{name...}", &AvatarHandler{ProfileService: r.ProfileService})
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys, r.avatars))
	r.Mux.Handle("GET /metrics", promhttp.Handler())
}
