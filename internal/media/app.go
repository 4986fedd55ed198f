// Package media initializes and runs the upload passthrough server.
package media

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/akozlov/custhub/internal/httpx"
	"github.com/akozlov/custhub/internal/logging"
	"github.com/akozlov/custhub/internal/media/config"
	"github.com/akozlov/custhub/internal/media/httpapi"
	"github.com/akozlov/custhub/internal/media/storage"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	handler http.Handler
}

func NewApp(cfg *config.Config) (*App, error) {

	if cfg.S3Bucket == "" {
		return nil, errors.New("object store bucket is not configured")
	}

	logger := logging.NewJSON()

	store := storage.NewS3Store(cfg)

	mux := http.NewServeMux()
	httpapi.NewHandler(logger, store, cfg.MaxUploadBytes, cfg.UploadTimeout).Register(mux)

	metrics := httpx.NewMetrics("media")
	mux.Handle("/metrics", metrics.Handler())

	var handler http.Handler = mux
	handler = metrics.WithMetrics(handler)
	handler = httpx.WithRequestLogging(handler, logger)
	handler = httpx.WithRecovery(handler, logger)

	return &App{config: cfg, logger: logger, handler: handler}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
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

	app.logger.Info(ctx, "Starting media service...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}
