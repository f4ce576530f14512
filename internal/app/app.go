// Package app wires configuration, logging, services, the websocket hub
// and the HTTP router into one runnable application.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"combinercli/internal/config"
	apierrors "combinercli/internal/errors"
	"combinercli/internal/infrastructure"
	custommiddleware "combinercli/internal/middleware"
	"combinercli/internal/services"
	handlers "combinercli/internal/transport/http"
	ws "combinercli/internal/websocket"
)

// Application is the dependency container for the web binary.
type Application struct {
	Config        *config.Config
	Logger        *slog.Logger
	Router        *chi.Mux
	Server        *http.Server
	Hub           *ws.Hub
	ReportService *services.ReportService
	HealthService *services.HealthService
}

// NewApplication loads configuration and builds the full dependency graph.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("version", services.Version),
		slog.Int("port", cfg.Server.Port))

	hub := ws.NewHub(logger)
	reportService := services.NewReportService(cfg.Combine, logger, hub.BroadcastProgress)
	healthService := services.NewHealthService()

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		Hub:           hub,
		ReportService: reportService,
		HealthService: healthService,
	}
	app.Router = app.buildRouter()
	app.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return app, nil
}

// buildRouter assembles the middleware chain and mounts all routes.
func (a *Application) buildRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(custommiddleware.StructuredLogger(a.Logger))
	r.Use(custommiddleware.Recoverer(a.Logger))
	r.Use(custommiddleware.SecurityHeaders)
	if a.Config.Security.EnableCORS {
		r.Use(custommiddleware.CORS(a.Config.Security.AllowedOrigins))
	}
	if a.Config.Security.RateLimit.Enabled {
		limiter := custommiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger)
		r.Use(limiter.Handler)
	}

	errorHandler := apierrors.NewErrorHandler(a.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Mount("/health", handlers.NewHealthHandler(a.HealthService).Routes())
		r.Mount("/combine", handlers.NewCombineHandler(a.ReportService, a.Config.Combine, a.Logger, errorHandler).Routes())
	})

	upgrader := websocket.Upgrader{
		ReadBufferSize:  a.Config.WebSocket.ReadBufferSize,
		WriteBufferSize: a.Config.WebSocket.WriteBufferSize,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range a.Config.Security.AllowedOrigins {
				if allowed == "*" || allowed == origin {
					return true
				}
			}
			return false
		},
	}
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		if err := ws.ServeWS(a.Hub, upgrader, w, r); err != nil {
			errorHandler.HandleError(w, r, apierrors.ErrWebSocketUpgrade)
		}
	})

	return r
}

// Run starts the hub and the HTTP server and blocks until shutdown.
func (a *Application) Run() error {
	a.Hub.Start()
	defer a.Hub.Stop()
	defer infrastructure.CloseLogFile()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.Info("http server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.Logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
		defer cancel()
		return a.Server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	a.Logger.Info("shutdown complete")
	return nil
}
