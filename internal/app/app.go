// Package app wires and runs the two binaries of the project: the signup web UI
// and the reference users backend. Both share configuration loading, logging and
// graceful shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/patric-chuzhbe/usersignup/internal/backend"
	"github.com/patric-chuzhbe/usersignup/internal/config"
	"github.com/patric-chuzhbe/usersignup/internal/db/jsondb"
	"github.com/patric-chuzhbe/usersignup/internal/db/memorystorage"
	"github.com/patric-chuzhbe/usersignup/internal/db/postgresdb"
	"github.com/patric-chuzhbe/usersignup/internal/form"
	"github.com/patric-chuzhbe/usersignup/internal/logger"
	"github.com/patric-chuzhbe/usersignup/internal/models"
	"github.com/patric-chuzhbe/usersignup/internal/router"
	"github.com/patric-chuzhbe/usersignup/internal/service"
	"github.com/patric-chuzhbe/usersignup/internal/webui"
)

const shutdownTimeout = 10 * time.Second

type usersKeeper interface {
	GetUsers(ctx context.Context) (models.Users, error)
	InsertUser(ctx context.Context, record models.UserRecord) error
	UpdateUser(ctx context.Context, record models.UserRecord) error
}

type pinger interface {
	Ping(ctx context.Context) error
}

type storage interface {
	usersKeeper
	pinger
	Close() error
}

// App encapsulates the configuration, the HTTP handler and the resources to release
// on shutdown of one binary.
type App struct {
	cfg         *config.Config
	httpHandler http.Handler
	closers     []func() error
}

func newApp(configOptions ...config.InitOption) (*App, error) {
	var err error
	app := &App{}

	app.cfg, err = config.New(configOptions...)
	if err != nil {
		return nil, err
	}

	err = logger.Init(app.cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	return app, nil
}

// NewUsersBackend initializes the reference users backend:
// - loading configuration
// - initializing logger
// - selecting and setting up storage
// - setting up the REST router
func NewUsersBackend(configOptions ...config.InitOption) (*App, error) {
	app, err := newApp(configOptions...)
	if err != nil {
		return nil, err
	}

	db, err := getStorageByType(app.cfg)
	if err != nil {
		return nil, fmt.Errorf("in internal/app/app.go/NewUsersBackend(): error while `getStorageByType()` calling: %w", err)
	}
	app.closers = append(app.closers, db.Close)

	svc, err := service.New(db)
	if err != nil {
		return nil, errors.Join(err, db.Close())
	}

	app.httpHandler = router.New(svc)

	return app, nil
}

// NewSignup initializes the signup web UI. The list of registered users is fetched
// from the backend once; if that fails the page starts with an empty table.
func NewSignup(configOptions ...config.InitOption) (*App, error) {
	app, err := newApp(configOptions...)
	if err != nil {
		return nil, err
	}

	alerts := &webui.Alerts{}
	controller, err := form.New(
		backend.New(app.cfg.BackendURL),
		form.WithNotifier(alerts),
	)
	if err != nil {
		return nil, err
	}

	initCtx, cancel := context.WithTimeout(context.Background(), app.cfg.DBConnectionTimeout)
	defer cancel()
	controller.Initialize(initCtx)

	app.httpHandler = webui.New(controller, alerts)

	return app, nil
}

// Handler returns the HTTP handler of the binary.
func (a *App) Handler() http.Handler {
	return a.httpHandler
}

// Run starts the HTTP server with graceful shutdown support.
// It listens for system signals and cleans up resources upon termination.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Log.Infoln("server running", "RunAddr", a.cfg.RunAddr)

	server := &http.Server{
		Addr:    a.cfg.RunAddr,
		Handler: a.httpHandler,
	}

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Log.Infoln("Received shutdown signal. Closing storage and exiting...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		return a.release()

	case err := <-serverErrCh:
		return errors.Join(fmt.Errorf("server error: %w", err), a.release())
	}
}

func (a *App) release() error {
	var errs []error
	for _, closeFn := range a.closers {
		errs = append(errs, closeFn())
	}
	a.closers = nil

	return errors.Join(errs...)
}

// Close finalizes resources used by App such as logging.
func (a *App) Close() {
	if err := a.release(); err != nil {
		logger.Log.Errorw("unable to release resources", "error", err)
	}
	if err := logger.Sync(); err != nil {
		fmt.Fprintln(os.Stderr, "Logger sync error:", err)
	}
}

func getAvailableStorageType(cfg *config.Config) int {
	if cfg.DatabaseDSN != "" {
		return models.StorageTypePostgresql
	}

	if cfg.DBFileName != "" {
		return models.StorageTypeFile
	}

	return models.StorageTypeMemory
}

func getStorageByType(cfg *config.Config) (storage, error) {
	switch getAvailableStorageType(cfg) {
	case models.StorageTypeUnknown:
		return nil, errors.New("unknown storage type")

	case models.StorageTypePostgresql:
		return postgresdb.New(
			context.Background(),
			cfg.DatabaseDSN,
			cfg.DBConnectionTimeout,
			cfg.MigrationsDir,
		)

	case models.StorageTypeFile:
		return jsondb.New(cfg.DBFileName)
	}

	return memorystorage.New()
}
