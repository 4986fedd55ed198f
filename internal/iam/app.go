// Package iam initializes and runs the credential service: it loads
// configuration, connects to Postgres, applies schema migrations, and starts
// the HTTP server with graceful shutdown.
package iam

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/akozlov/custhub/internal/httpx"
	"github.com/akozlov/custhub/internal/iam/config"
	"github.com/akozlov/custhub/internal/iam/hashing"
	"github.com/akozlov/custhub/internal/iam/httpapi"
	"github.com/akozlov/custhub/internal/iam/migrations"
	"github.com/akozlov/custhub/internal/iam/repositories/users"
	"github.com/akozlov/custhub/internal/iam/services"
	"github.com/akozlov/custhub/internal/logging"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	handler http.Handler
}

func NewApp(cfg *config.Config) (*App, error) {

	if cfg.SecretKey == "" {
		return nil, errors.New("signing secret is not configured")
	}
	if cfg.DatabaseDSN == "" {
		return nil, errors.New("database DSN is not configured")
	}

	logger := logging.NewJSON()

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := runMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	repo := users.NewPostgresRepository(db)
	hasher := hashing.NewBcryptHasher(cfg.BcryptCost)

	creds, err := services.NewCredentialService(repo, hasher, cfg)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("service init error: %w", err)
	}

	mux := http.NewServeMux()
	httpapi.NewHandler(logger, creds, db.PingContext).Register(mux)

	metrics := httpx.NewMetrics("iam")
	mux.Handle("/metrics", metrics.Handler())

	var handler http.Handler = mux
	handler = metrics.WithMetrics(handler)
	handler = httpx.WithRequestLogging(handler, logger)
	handler = httpx.WithRecovery(handler, logger)

	return &App{config: cfg, logger: logger, db: db, handler: handler}, nil
}

// runMigrations is a var so tests can substitute a failing migration run.
var runMigrations = func(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	srv := &http.Server{Addr: app.config.EndpointAddr, Handler: app.handler}

	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, err.Error())
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", app.config.EndpointAddr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting iam service...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
