package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/aussiebroadwan/gatehouse/internal/auth/cache"
	"github.com/aussiebroadwan/gatehouse/internal/auth/events"
	"github.com/aussiebroadwan/gatehouse/internal/auth/federation"
	httpapi "github.com/aussiebroadwan/gatehouse/internal/auth/http"
	"github.com/aussiebroadwan/gatehouse/internal/auth/metrics"
	"github.com/aussiebroadwan/gatehouse/internal/auth/service"
	"github.com/aussiebroadwan/gatehouse/internal/auth/store"
	"github.com/aussiebroadwan/gatehouse/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/gatehouse/pkg/cryptox"
	"github.com/aussiebroadwan/gatehouse/pkg/httpx"
	"github.com/aussiebroadwan/gatehouse/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"

	ServiceName = "gatehouse-auth"
)

// Application encapsulates the auth service application with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db      store.Store
	cache   cache.Cache
	events  events.Publisher
	keys    *SigningKeys
	metrics *metrics.Metrics

	// Services
	tokens     *service.TokenIssuer
	sessions   *service.SessionService
	twoFactor  *service.TwoFactorService
	accounts   *service.AccountService
	federation *service.FederationService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// Option customises an Application before it is wired.
type Option func(*Application)

// WithEventPublisher replaces the configured event driver.
func WithEventPublisher(p events.Publisher) Option {
	return func(app *Application) { app.events = p }
}

// WithCache replaces the configured session cache driver.
func WithCache(c cache.Cache) Option {
	return func(app *Application) { app.cache = c }
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config, opts ...Option) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: ServiceName,
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		metrics: metrics.New(httpx.Collectors()...),
	}
	for _, opt := range opts {
		opt(app)
	}

	if err := cryptox.LoadPepper(cfg.PepperFile); err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	keys, err := LoadSigningKeys(cfg, app.logger)
	if err != nil {
		_ = app.release()
		return nil, fmt.Errorf("failed to initialize JWT keys: %w", err)
	}
	app.keys = keys

	app.initCache()
	if err := app.initEvents(); err != nil {
		_ = app.release()
		return nil, err
	}

	app.initServices()
	if err := app.initHTTP(); err != nil {
		_ = app.release()
		return nil, err
	}

	return app, nil
}

// Handler is the fully wired HTTP handler, for running the service in-process.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("auth service starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		// Perform graceful shutdown
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.release(); err != nil {
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// release closes the event publisher, cache and database, whichever are open.
// Pending events are flushed before the cache and database go away.
func (app *Application) release() error {
	if app.events != nil {
		if err := app.events.Close(); err != nil {
			app.logger.Error("error closing event publisher", "error", err)
		}
	}
	if app.cache != nil {
		if err := app.cache.Close(); err != nil {
			app.logger.Error("error closing cache", "error", err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database", "error", err)
			return err
		}
	}
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initCache selects the session cache driver. An unreachable Redis is not
// fatal: requests that need it answer 503 and /readyz reports it.
func (app *Application) initCache() {
	if app.cache != nil {
		return
	}
	switch app.cfg.CacheDriver {
	case "memory":
		app.cache = cache.NewMemory()
		app.logger.Warn("using in-memory session cache, sessions will not survive a restart")
	default:
		app.cache = cache.NewRedis(cache.RedisConfig{
			Addr:      app.cfg.RedisAddr,
			Password:  app.cfg.RedisPassword,
			DB:        app.cfg.RedisDB,
			KeyPrefix: app.cfg.RedisKeyPrefix,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := app.cache.Ping(ctx); err != nil {
			app.logger.Warn("session cache not reachable at startup", "addr", app.cfg.RedisAddr, "err", err)
		}
	}
}

func (app *Application) initEvents() error {
	if app.events != nil {
		return nil
	}
	switch app.cfg.EventsDriver {
	case "log":
		app.events = events.LogPublisher{}
	default:
		kcfg, err := events.LoadKafkaConfig()
		if err != nil {
			return err
		}
		app.events = events.NewKafkaPublisher(kcfg, map[string]string{
			"service": ServiceName,
			"version": BuildVersion,
		})
		app.logger.Info("publishing events to kafka", "bootstrap_server", kcfg.BootstrapServer)
	}
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.tokens = &service.TokenIssuer{
		Signer:    app.keys.Signer,
		Verifier:  app.keys.Verifier,
		Issuer:    app.cfg.Issuer,
		AccessTTL: app.cfg.AccessTTL,
		Metrics:   app.metrics,
	}
	revocations := &service.Revocations{Cache: app.cache, Metrics: app.metrics}

	app.sessions = &service.SessionService{
		Store:  app.db,
		Tokens: app.tokens,
		RefreshTokens: &service.RefreshTokens{
			Cache:   app.cache,
			TTL:     app.cfg.RefreshTTL,
			Metrics: app.metrics,
		},
		Revocations: revocations,
	}

	qr := app.cfg.QRURLTemplate
	if qr == "" {
		qr = service.DefaultQRURLTemplate
	}
	app.twoFactor = &service.TwoFactorService{
		Store:         app.db,
		Cache:         app.cache,
		Events:        app.events,
		Sessions:      app.sessions,
		Metrics:       app.metrics,
		Issuer:        app.cfg.TwoFactorIssuer,
		QRURLTemplate: qr,
	}

	app.accounts = &service.AccountService{
		Store:           app.db,
		Cache:           app.cache,
		Events:          app.events,
		Tokens:          app.tokens,
		Sessions:        app.sessions,
		TwoFactor:       app.twoFactor,
		Revocations:     revocations,
		Metrics:         app.metrics,
		VerificationTTL: app.cfg.VerificationTTL,
	}
}

// initProviders builds the enabled identity providers in a stable order.
func (app *Application) initProviders() (*federation.Registry, error) {
	names := make([]string, 0, len(app.cfg.OAuth2Providers))
	for name := range app.cfg.OAuth2Providers {
		names = append(names, name)
	}
	sort.Strings(names)

	providers := make([]*federation.Provider, 0, len(names))
	for _, name := range names {
		client := app.cfg.OAuth2Providers[name]
		p, err := federation.NewProvider(name, federation.ProviderConfig{
			ClientID:     client.ClientID,
			ClientSecret: client.ClientSecret,
			CallbackURL:  app.cfg.OAuth2CallbackURL + "/login/oauth2/code/" + name,
		})
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}

	app.logger.Info("federated login providers", "enabled", names)
	return federation.NewRegistry(providers...), nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() error {
	registry, err := app.initProviders()
	if err != nil {
		return fmt.Errorf("failed to configure login providers: %w", err)
	}

	secret := app.cfg.CookieSecret
	if secret == "" {
		// Dev only; Validate rejects this elsewhere
		secret = cryptox.MustGenerateToken(32)
	}
	sealer, err := federation.NewSealer([]byte(secret))
	if err != nil {
		return fmt.Errorf("failed to configure login cookies: %w", err)
	}

	app.federation = &service.FederationService{
		Store:     app.db,
		Tokens:    app.tokens,
		Providers: registry,
		Metrics:   app.metrics,
	}

	router := httpapi.NewRouter(
		app.keys.KeySet,
		app.keys.Verifier,
		BuildVersion,
		app.db,
		app.cache,
		app.metrics,
		app.logger,
	)

	// Wire services to router
	router.Revocations = app.sessions.Revocations
	router.PrivateSecret = app.cfg.PrivateSecret
	router.AllowedOrigins = app.cfg.CORSAllowedOrigins
	router.Auth = &httpapi.AuthHandler{Accounts: app.accounts, Sessions: app.sessions}
	router.TwoFactor = &httpapi.TwoFactorHandler{TwoFactor: app.twoFactor}
	router.Internal = &httpapi.InternalHandler{Accounts: app.accounts}
	router.OAuth2 = &httpapi.OAuth2Handler{
		Federation: app.federation,
		Cookies:    &federation.Cookies{Sealer: sealer, Secure: app.cfg.CookieSecure},
		Allowlist:  federation.RedirectAllowlist(app.cfg.OAuth2Redirects),
		SuccessURL: app.cfg.OAuth2SuccessURL,
		FailureURL: app.cfg.OAuth2FailureURL,
	}
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return nil
}
