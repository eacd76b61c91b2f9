package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/orgauth/internal/auth/http"
	"github.com/aussiebroadwan/orgauth/internal/auth/mail"
	"github.com/aussiebroadwan/orgauth/internal/auth/service"
	"github.com/aussiebroadwan/orgauth/internal/auth/store"
	"github.com/aussiebroadwan/orgauth/internal/auth/store/drivers/mongo"
	"github.com/aussiebroadwan/orgauth/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/orgauth/pkg/cryptox"
	"github.com/aussiebroadwan/orgauth/pkg/idx"
	"github.com/aussiebroadwan/orgauth/pkg/jwtx"
	"github.com/aussiebroadwan/orgauth/pkg/otelx"
	"github.com/aussiebroadwan/orgauth/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// BuildVersion is overridden at build time via ldflags.
var BuildVersion = "v0.1.0"

// Application encapsulates the auth service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       store.Store
	registry *prometheus.Registry
	ids      *idx.Generator
	tracing  otelx.ShutdownFunc

	tokenService        *service.TokenService
	authService         *service.AuthService
	organisationService *service.OrganisationService
	inviteService       *service.InviteService

	server *http.Server
	router *httpapi.Router
}

// NewLogger builds the process logger from cfg and installs it as default.
func NewLogger(cfg Config) *slog.Logger {
	return slogx.New(slogx.Config{
		Service: "orgauth",
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})
}

// New creates a new Application instance with all dependencies initialized.
func New(ctx context.Context, cfg Config) (*Application, error) {
	app := &Application{
		cfg:      cfg,
		logger:   NewLogger(cfg),
		registry: prometheus.NewRegistry(),
		ids:      idx.NewGenerator(),
	}
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	tracing, err := otelx.Setup(ctx, otelx.Config{
		Service:  "orgauth",
		Version:  BuildVersion,
		Endpoint: cfg.OTelEndpoint,
		Enabled:  cfg.OTelEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	app.tracing = tracing
	if cfg.OTelEnabled && cfg.OTelEndpoint != "" {
		app.logger.Info("tracing enabled", slog.String("endpoint", cfg.OTelEndpoint))
	}

	db, err := OpenStore(ctx, cfg)
	if err != nil {
		_ = tracing(ctx)
		return nil, err
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		app.closeOnInitError(ctx)
		return nil, fmt.Errorf("failed to apply database migrations: %w", err)
	}
	app.logger.Info("database migrations applied successfully", slog.String("driver", cfg.StoreDriver))

	if err := app.initServices(); err != nil {
		app.closeOnInitError(ctx)
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

func (app *Application) closeOnInitError(ctx context.Context) {
	_ = app.db.Close()
	_ = app.tracing(ctx)
}

// OpenStore connects the configured credential store driver.
func OpenStore(ctx context.Context, cfg Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case "mongo":
		db, err := mongo.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		return db, nil
	default:
		host := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", cfg.DatabaseFile)
		db, err := sqlite.NewStore(host)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return db, nil
	}
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("auth service starting", slog.Int("port", app.cfg.Port), slog.String("version", BuildVersion))

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown stops the HTTP server, lets in-flight invite sends finish within
// the grace period, flushes spans, then closes the store.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", slog.Any("error", err))
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", slog.Any("error", err))
		}
	}

	if err := app.inviteService.Drain(ctx); err != nil {
		app.logger.Warn("invite dispatch still in flight at shutdown", slog.Any("error", err))
	}

	if err := app.tracing(ctx); err != nil {
		app.logger.Warn("pending spans not flushed", slog.Any("error", err))
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", slog.Any("error", err))
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// tokenKeys derives signing keys from the configured secret, or from a
// random one when none is set.
func (app *Application) tokenKeys() (jwtx.Keys, error) {
	secret := app.cfg.TokenSecret
	if secret == "" {
		generated, err := cryptox.GenerateToken(cryptox.TokenSize256)
		if err != nil {
			return jwtx.Keys{}, fmt.Errorf("generate token secret: %w", err)
		}
		secret = generated
		app.logger.Warn("AUTH_TOKEN_SECRET not set, using an ephemeral secret; tokens will not survive a restart",
			slog.String("fingerprint", cryptox.FingerprintToken(secret)),
		)
	}
	return jwtx.DeriveKeys([]byte(secret))
}

func (app *Application) initServices() error {
	keys, err := app.tokenKeys()
	if err != nil {
		return fmt.Errorf("failed to initialize token keys: %w", err)
	}

	app.tokenService, err = service.NewTokenService(service.TokenConfig{
		Keys:       keys,
		Issuer:     app.cfg.Issuer,
		SessionTTL: app.cfg.SessionTTL,
		InviteTTL:  app.cfg.InviteTTL,
		Leeway:     30 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}

	metrics := service.NewMetrics(app.registry)
	hasher := cryptox.NewHasher(cryptox.Params{
		MemoryKiB:   app.cfg.Argon2MemoryKiB,
		Iterations:  app.cfg.Argon2Iterations,
		Parallelism: app.cfg.Argon2Parallelism,
	}, app.cfg.Pepper)
	guard := service.NewOwnershipGuard(app.db, app.tokenService, metrics)

	app.authService = service.NewAuthService(app.db, hasher, app.tokenService, metrics)
	app.organisationService = service.NewOrganisationService(app.db, guard, app.ids)
	app.inviteService = service.NewInviteService(app.db, guard, app.tokenService, app.mailTransport(), service.InviteConfig{
		From:        app.cfg.MailFrom,
		BaseURL:     app.cfg.FrontendURL,
		Concurrency: app.cfg.InviteConcurrency,
	}, metrics)

	return nil
}

func (app *Application) mailTransport() mail.Transport {
	if app.cfg.SMTPHost == "" {
		app.logger.Warn("SMTP_HOST not set, invites will be logged instead of sent")
		return mail.LogTransport{}
	}
	return mail.NewSMTPTransport(mail.SMTPConfig{
		Host:     app.cfg.SMTPHost,
		Port:     app.cfg.SMTPPort,
		Username: app.cfg.SMTPUsername,
		Password: app.cfg.SMTPPassword,
	})
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.registry, app.logger)

	router.IDs = app.ids
	router.TokenService = app.tokenService
	router.AuthService = app.authService
	router.OrganisationService = app.organisationService
	router.InviteService = app.inviteService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
