package server

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	domrepo "StockLens/internal/domain/repository"
	xhttp "StockLens/pkg/http"
	applogger "StockLens/pkg/logger"
)

// Janitor is a background task that runs until stop is closed.
type Janitor interface {
	Run(stop <-chan struct{})
}

// App encapsulates the application lifecycle: HTTP server, background
// janitors and the resources closed on shutdown.
type App struct {
	logger          *applogger.Logger
	httpServer      *xhttp.Server
	events          domrepo.EventPublisher
	janitors        []Janitor
	closers         []io.Closer
	shutdownTimeout time.Duration
}

type Option func(*App)

func WithJanitor(j Janitor) Option {
	return func(a *App) {
		if j != nil {
			a.janitors = append(a.janitors, j)
		}
	}
}

// WithCloser registers a resource closed after the server has drained.
func WithCloser(c io.Closer) Option {
	return func(a *App) {
		if c != nil {
			a.closers = append(a.closers, c)
		}
	}
}

func WithShutdownTimeout(d time.Duration) Option {
	return func(a *App) { a.shutdownTimeout = d }
}

// New creates a new App instance with all dependencies.
func New(logger *applogger.Logger, srv *xhttp.Server, events domrepo.EventPublisher, opts ...Option) *App {
	a := &App{
		logger:          logger,
		httpServer:      srv,
		events:          events,
		shutdownTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run starts the application and blocks until interrupted or ctx is done.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	janitorStop := make(chan struct{})
	for _, j := range a.janitors {
		go j.Run(janitorStop)
	}

	if err := a.httpServer.Start(); err != nil {
		close(janitorStop)
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}

	var serveErr error
	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case serveErr = <-a.httpServer.Err():
		a.logger.Error("http server stopped unexpectedly", applogger.Error(serveErr))
	}
	close(janitorStop)
	return errors.Join(serveErr, a.shutdown())
}

// shutdown drains the HTTP server, runs the registered closers in order and
// closes the event publisher last since closers may still publish through it.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.httpServer.Stop(ctx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
		errs = append(errs, err)
	}
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.logger.Warn("resource close error", applogger.Error(err))
			errs = append(errs, err)
		}
	}
	if a.events != nil {
		if err := a.events.Close(); err != nil {
			a.logger.Warn("event publisher close error", applogger.Error(err))
			errs = append(errs, err)
		}
	}

	a.logger.Info("shutdown complete")
	return errors.Join(errs...)
}
