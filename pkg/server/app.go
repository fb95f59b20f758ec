package server

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"AdPulse/internal/usecase"
	"AdPulse/pkg/config"
	xhttp "AdPulse/pkg/http"
	pkgkafka "AdPulse/pkg/kafka"
	applogger "AdPulse/pkg/logger"
	"AdPulse/pkg/queue"
)

type namedCloser struct {
	name string
	c    io.Closer
}

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	httpServer *xhttp.Server
	sessions   *usecase.SessionManager
	consumer   *pkgkafka.Consumer
	ingest     pkgkafka.MessageHandler
	queue      *queue.RedisQueue
	closers    []namedCloser
}

// Option attaches an optional component to the App.
type Option func(*App)

// WithConsumer runs consumer with handler registered.
func WithConsumer(consumer *pkgkafka.Consumer, handler pkgkafka.MessageHandler) Option {
	return func(a *App) {
		a.consumer = consumer
		a.ingest = handler
	}
}

// WithQueue runs the background job workers.
func WithQueue(q *queue.RedisQueue) Option {
	return func(a *App) { a.queue = q }
}

// WithCloser closes c after every component stopped.
func WithCloser(name string, c io.Closer) Option {
	return func(a *App) { a.closers = append(a.closers, namedCloser{name: name, c: c}) }
}

// New creates a new App instance with all dependencies.
func New(cfg *config.Config, l *applogger.Logger, srv *xhttp.Server, sessions *usecase.SessionManager, opts ...Option) *App {
	if l == nil {
		l = applogger.Nop()
	}
	a := &App{cfg: cfg, log: l, httpServer: srv, sessions: sessions}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext starts every component and blocks until ctx is done.
func (a *App) RunContext(ctx context.Context) error {
	bg, cancel := context.WithCancel(context.Background())
	defer cancel()

	go a.sessions.Run(bg, a.cfg.Dashboard.SessionTTL/2)

	if a.consumer != nil && a.ingest != nil {
		a.consumer.RegisterHandler(a.ingest)
		if err := a.consumer.Start(); err != nil {
			a.log.Error("kafka consumer start error", applogger.Error(err))
			return err
		}
		a.log.Info("kafka consumer started", applogger.String("topic", a.ingest.Topic()))
	}

	if a.queue != nil {
		if err := a.queue.Start(); err != nil {
			a.log.Error("job queue start error", applogger.Error(err))
			a.shutdown(cancel)
			return err
		}
	}

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		a.shutdown(cancel)
		return err
	}
	a.log.Info("adpulse started",
		applogger.String("env", a.cfg.Environment),
		applogger.String("source", a.cfg.Dashboard.Source))

	<-ctx.Done()
	a.log.Info("shutdown signal received")
	a.shutdown(cancel)
	return nil
}

// shutdown stops components in reverse start order, then closes clients.
func (a *App) shutdown(cancel context.CancelFunc) {
	ctx, done := context.WithTimeout(context.Background(), a.httpServer.ShutdownTimeout())
	defer done()

	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}
	if a.queue != nil {
		if err := a.queue.Stop(ctx); err != nil {
			a.log.Warn("job queue stop error", applogger.Error(err))
		}
	}
	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			a.log.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}
	cancel()

	for _, c := range a.closers {
		if err := c.c.Close(); err != nil {
			a.log.Warn("close error", applogger.String("component", c.name), applogger.Error(err))
		}
	}
	a.log.Info("shutdown complete")
}
