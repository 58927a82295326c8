package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aussiebroadwan/doorsign/internal/doorsign/epaper"
	httpapi "github.com/aussiebroadwan/doorsign/internal/doorsign/http"
	"github.com/aussiebroadwan/doorsign/internal/doorsign/service"
	"github.com/aussiebroadwan/doorsign/internal/doorsign/store"
	"github.com/aussiebroadwan/doorsign/internal/doorsign/store/drivers/memory"
	"github.com/aussiebroadwan/doorsign/internal/doorsign/store/drivers/sqlite"
	"github.com/aussiebroadwan/doorsign/pkg/cryptox"
	"github.com/aussiebroadwan/doorsign/pkg/jwtx"
	"github.com/aussiebroadwan/doorsign/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application wires the doorsign service together: store, session
// signer, e-paper client, services, HTTP server.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	signer *jwtx.Signer
	epaper *epaper.Client

	authService   *service.AuthService
	userService   *service.UserService
	statusService *service.StatusService
	optionService *service.OptionService
	syncService   *service.SyncService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "doorsign",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("DOORSIGN_SESSION_SECRET must be set")
	}
	app.signer = &jwtx.Signer{
		Secret: []byte(cfg.SessionSecret),
		Issuer: cfg.Issuer,
		TTL:    cfg.SessionTTL,
	}

	// Set pepper path for password hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initStore(); err != nil {
		return nil, err
	}

	app.epaper = epaper.NewClient(cfg.EpaperTimeout)

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.syncService.Start()

	app.logger.Info("doorsign service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"store", app.cfg.StoreBackend,
		"sync_back", app.cfg.SyncBackEnabled,
	)

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

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down doorsign service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.syncService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing store", "error", err)
		return err
	}

	app.logger.Info("doorsign service stopped")
	return nil
}

// initStore picks the configured backend and applies migrations. The
// memory backend exists for demos and tests; it seeds the same status
// catalog the sqlite migrations do.
func (app *Application) initStore() error {
	switch app.cfg.StoreBackend {
	case "memory":
		app.db = memory.NewStore()
	case "sqlite":
		dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
		db, err := sqlite.NewStore(dsn)
		if err != nil {
			return fmt.Errorf("failed to initialize store: %w", err)
		}
		app.db = db
	default:
		return fmt.Errorf("unknown store backend %q", app.cfg.StoreBackend)
	}

	if err := app.db.ApplyMigrations(); err != nil {
		_ = app.db.Close()
		return fmt.Errorf("failed to apply store migrations: %w", err)
	}

	app.logger.Info("store migrations applied successfully")
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.authService = &service.AuthService{
		Store:  app.db,
		Signer: app.signer,
	}
	app.userService = &service.UserService{Store: app.db}
	app.statusService = &service.StatusService{
		Store:  app.db,
		Epaper: app.epaper,
	}
	app.optionService = &service.OptionService{Store: app.db}

	app.syncService = service.NewSyncService(
		app.db,
		app.epaper,
		app.cfg.SyncBackEnabled,
		app.cfg.SyncInterval,
		app.logger,
	)
	if app.cfg.SyncConcurrency > 0 {
		app.syncService.Concurrency = app.cfg.SyncConcurrency
	}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(app.signer, BuildVersion, app.db, app.logger)

	// Wire services to router
	router.AuthService = app.authService
	router.UserService = app.userService
	router.StatusService = app.statusService
	router.OptionService = app.optionService
	router.SyncService = app.syncService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
