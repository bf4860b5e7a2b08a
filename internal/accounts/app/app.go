package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/mail"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/foodcodes/internal/accounts/http"
	"github.com/aussiebroadwan/foodcodes/internal/accounts/markup"
	"github.com/aussiebroadwan/foodcodes/internal/accounts/media"
	"github.com/aussiebroadwan/foodcodes/internal/accounts/notify"
	"github.com/aussiebroadwan/foodcodes/internal/accounts/service"
	"github.com/aussiebroadwan/foodcodes/internal/accounts/store"
	"github.com/aussiebroadwan/foodcodes/internal/accounts/store/drivers/postgres"
	"github.com/aussiebroadwan/foodcodes/internal/accounts/store/drivers/sqlite"
	"github.com/aussiebroadwan/foodcodes/pkg/cryptox"
	"github.com/aussiebroadwan/foodcodes/pkg/mailx"
	"github.com/aussiebroadwan/foodcodes/pkg/slogx"
	"github.com/aussiebroadwan/foodcodes/pkg/tokenx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the accounts service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db      store.Store
	hasher  *cryptox.PasswordHasher
	keys    *SessionKeys
	tokens  *tokenx.Generator
	mailer  *notify.Mailer
	avatars media.Store

	// Services
	registrationService *service.RegistrationService
	activationService   *service.ActivationService
	sessionService      *service.SessionService
	profileService      *service.ProfileService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// NewLogger builds the process logger from cfg.
func NewLogger(cfg Config) *slog.Logger {
	return slogx.New(slogx.Config{
		Service: "accounts-service",
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})
}

// New creates a new Application instance with all dependencies initialized
func New(ctx context.Context, cfg Config) (*Application, error) {
	app := &Application{
		cfg:    cfg,
		logger: NewLogger(cfg),
	}

	if err := app.initDatabase(ctx); err != nil {
		return nil, err
	}

	if err := app.initDependencies(ctx); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("accounts service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		app.housekeepingService.Stop()
		_ = app.db.Close()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down accounts service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("accounts service stopped")
	return nil
}

// Handler returns the root HTTP handler.
func (app *Application) Handler() http.Handler { return app.router }

// OpenStore opens the configured database driver without migrating it.
func OpenStore(ctx context.Context, cfg Config) (store.Store, error) {
	switch cfg.DatabaseDriver {
	case "postgres":
		return postgres.NewStore(ctx, cfg.DatabaseURL)
	case "sqlite", "":
		dsn := cfg.DatabaseFile
		if dsn != ":memory:" {
			dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", cfg.DatabaseFile)
		}
		return sqlite.NewStore(dsn)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.DatabaseDriver)
	}
}

// Migrate applies all pending migrations and closes the store.
func Migrate(ctx context.Context, cfg Config, logger *slog.Logger) error {
	db, err := OpenStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.ApplyMigrations(); err != nil {
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}
	logger.Info("database migrations applied successfully", "driver", cfg.DatabaseDriver)
	return nil
}

// PurgeInactive runs a single housekeeping pass.
func PurgeInactive(ctx context.Context, cfg Config, logger *slog.Logger) (int64, error) {
	db, err := OpenStore(ctx, cfg)
	if err != nil {
		return 0, fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	hk := service.NewHousekeepingService(db, logger, cfg.HousekeepingInterval, cfg.InactiveAccountTTL)
	return hk.RunOnce(ctx)
}

func (app *Application) initDatabase(ctx context.Context) error {
	db, err := OpenStore(ctx, app.cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.DatabaseDriver)
	return nil
}

// initDependencies sets up the pepper, keys, the token generator, mail and
// avatar storage.
func (app *Application) initDependencies(ctx context.Context) error {
	pepper, err := cryptox.LoadOrCreatePepper(app.cfg.PepperFile)
	if err != nil {
		return fmt.Errorf("failed to load pepper: %w", err)
	}
	app.hasher = cryptox.NewPasswordHasher(pepper)

	keys, err := InitSessionKeys(app.cfg, app.issuer(), app.logger)
	if err != nil {
		return err
	}
	app.keys = keys

	secret, fallbacks, err := activationSecrets(app.cfg, app.logger)
	if err != nil {
		return err
	}
	app.tokens, err = tokenx.NewGenerator(tokenx.GeneratorConfig{
		Secret:          secret,
		FallbackSecrets: fallbacks,
		Window:          app.cfg.ActivationWindow,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize activation tokens: %w", err)
	}

	sender, err := app.newMailSender()
	if err != nil {
		return err
	}
	app.mailer, err = notify.NewMailer(sender, markup.New())
	if err != nil {
		return err
	}

	app.avatars, err = app.newAvatarStore(ctx)
	return err
}

func (app *Application) newMailSender() (mailx.Sender, error) {
	from := mail.Address{Name: app.cfg.Mail.SenderName, Address: app.cfg.Mail.From}

	switch app.cfg.Mail.Transport {
	case "smtp":
		app.logger.Info("mail transport: smtp", "host", app.cfg.Mail.Host, "port", app.cfg.Mail.Port)
		return mailx.NewSMTPSender(mailx.SMTPConfig{
			Host:     app.cfg.Mail.Host,
			Port:     app.cfg.Mail.Port,
			Username: app.cfg.Mail.Username,
			Password: app.cfg.Mail.Password,
			From:     from,
			TLS:      app.cfg.Mail.TLS,
			Timeout:  app.cfg.Mail.Timeout,
		})
	default:
		app.logger.Info("mail transport: log, messages are written to stderr")
		return mailx.NewWriterSender(from, os.Stderr), nil
	}
}

func (app *Application) newAvatarStore(ctx context.Context) (media.Store, error) {
	switch app.cfg.Avatars.Storage {
	case "s3":
		app.logger.Info("avatar storage: s3", "bucket", app.cfg.Avatars.S3Bucket)
		return media.NewS3Store(ctx, media.S3Config{
			Endpoint:  app.cfg.Avatars.S3Endpoint,
			Region:    app.cfg.Avatars.S3Region,
			Bucket:    app.cfg.Avatars.S3Bucket,
			AccessKey: app.cfg.Avatars.S3AccessKey,
			SecretKey: app.cfg.Avatars.S3SecretKey,
		})
	default:
		app.logger.Info("avatar storage: fs", "dir", app.cfg.Avatars.Dir)
		return media.NewFSStore(app.cfg.Avatars.Dir)
	}
}

func (app *Application) initServices() {
	validator := service.NewValidator()

	app.registrationService = &service.RegistrationService{
		Store:     app.db,
		Hasher:    app.hasher,
		Tokens:    app.tokens,
		Mailer:    app.mailer,
		Validator: validator,
		Site:      service.Site{Domain: app.cfg.SiteDomain, Scheme: app.cfg.SiteScheme},
	}

	app.activationService = &service.ActivationService{
		Store:  app.db,
		Tokens: app.tokens,
	}

	app.sessionService = &service.SessionService{
		Store:  app.db,
		Hasher: app.hasher,
		Signer: app.keys.Signer,
		Issuer: app.issuer(),
		TTL:    app.cfg.SessionTTL,
	}

	app.profileService = &service.ProfileService{
		Store:     app.db,
		Validator: validator,
		Markup:    markup.New(),
		Avatars:   app.avatars,
		Images: media.Processor{
			MaxBytes:     app.cfg.Avatars.MaxBytes,
			MaxDimension: app.cfg.Avatars.MaxDimension,
		},
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.InactiveAccountTTL,
	)
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keys.KeySet,
		app.keys.Verifier,
		BuildVersion,
		app.db,
		app.avatars,
		app.logger,
	)

	router.RegistrationService = app.registrationService
	router.ActivationService = app.activationService
	router.SessionService = app.sessionService
	router.ProfileService = app.profileService
	router.LoginURL = app.cfg.LoginURL
	router.ProfileURL = app.cfg.ProfileURL
	router.SecureCookies = app.cfg.SiteScheme == "https"
	router.MaxUploadBytes = app.cfg.Avatars.MaxBytes + 1<<20
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

func (app *Application) issuer() string {
	return app.cfg.SiteScheme + "://" + app.cfg.SiteDomain
}
