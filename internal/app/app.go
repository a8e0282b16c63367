// Package app wires configuration, services, transport, and lifecycle
// into the runnable dashboard server.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"spendlens/internal/config"
	apierrors "spendlens/internal/errors"
	"spendlens/internal/infrastructure"
	custommw "spendlens/internal/middleware"
	"spendlens/internal/services"
	"spendlens/internal/session"
	handlers "spendlens/internal/transport/http"
	ws "spendlens/internal/websocket"
)

const (
	AppName = "spendlens"
	Version = "1.0.0"
)

// Application is the composed dashboard server. Each instance carries
// its own metrics registry so multiple instances can coexist in one
// process.
type Application struct {
	Config    *config.Config
	Logger    *slog.Logger
	Router    *chi.Mux
	Server    *http.Server
	Hub       *ws.Hub
	Store     *session.Store
	Dashboard *services.DashboardService
	Metrics   *prometheus.Registry
}

// New builds the application from configuration.
func New() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig builds the application from an explicit configuration,
// which tests use to avoid touching the environment.
func NewWithConfig(cfg *config.Config) (*Application, error) {
	logger := infrastructure.InitializeLogger(cfg.Logging)
	logger.Info("application starting",
		slog.String("name", AppName),
		slog.String("version", Version))

	hub := ws.NewHub(logger)
	store := session.NewStore(cfg.Session.TTL, logger)
	dashboard := services.NewDashboardService(store, hub, logger)

	app := &Application{
		Config:    cfg,
		Logger:    logger,
		Hub:       hub,
		Store:     store,
		Dashboard: dashboard,
		Metrics:   prometheus.NewRegistry(),
	}
	app.setupRouter()

	app.Server = &http.Server{
		Addr:           cfg.ListenAddr(),
		Handler:        app.Router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}
	return app, nil
}

func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(custommw.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(custommw.StructuredLogger(a.Logger))
	r.Use(custommw.Recoverer(a.Logger))
	r.Use(custommw.NewHTTPMetrics(a.Metrics).Handler)
	if a.Config.Security.EnableCORS {
		r.Use(custommw.CORS(a.Config.Security.AllowedOrigins))
	}
	if a.Config.Security.RateLimit.Enabled {
		limiter := custommw.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger)
		r.Use(limiter.Handler)
	}

	errorHandler := apierrors.NewErrorHandler(a.Logger)
	sessionHandler := handlers.NewSessionHandler(a.Dashboard, a.Logger, errorHandler, a.Config.Server.MaxUploadBytes)
	templateHandler := handlers.NewTemplateHandler(a.Logger)
	healthHandler := handlers.NewHealthHandler(Version, a.Store.Len)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/healthz", healthHandler.Healthz)
		r.Mount("/sessions", sessionHandler.Routes())
		r.Mount("/template", templateHandler.Routes())
	})

	r.Handle("/metrics", promhttp.HandlerFor(a.Metrics, promhttp.HandlerOpts{}))

	r.Get("/ws", func(w http.ResponseWriter, req *http.Request) {
		ws.ServeWS(a.Hub, w, req)
	})

	a.Router = r
}

// Run starts the server, the websocket hub, and the session sweeper,
// then blocks until the context is cancelled or SIGINT/SIGTERM arrives.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Hub.Run(ctx)
		return nil
	})
	g.Go(func() error {
		a.Store.Run(ctx, a.Config.Session.SweepInterval)
		return nil
	})
	g.Go(func() error {
		a.Logger.Info("http server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		return a.shutdown()
	})

	return g.Wait()
}

func (a *Application) shutdown() error {
	a.Logger.Info("shutting down",
		slog.Int("sessions", a.Store.Len()),
		slog.Int("ws_clients", a.Hub.ClientCount()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
