package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"datacleaner/internal/config"
	apierrors "datacleaner/internal/errors"
	"datacleaner/internal/files"
	"datacleaner/internal/infrastructure"
	customMiddleware "datacleaner/internal/middleware"
	"datacleaner/internal/services"
	handlers "datacleaner/internal/transport/http"
	ws "datacleaner/internal/websocket"
	"datacleaner/pkg/contracts"
)

// AppName is reported in startup logs
const AppName = "datacleaner"

// LogFileName is used under the logs directory when no log file path is configured
const LogFileName = "datacleaner.log"

// Application represents the main application container
type Application struct {
	Config          *config.Config
	Paths           *config.Paths
	Router          *chi.Mux
	Server          *http.Server
	WebSocketHub    *ws.Hub
	CleaningService *services.CleaningService
	HealthService   *services.HealthService
	Files           *files.Manager
	Janitor         *files.Janitor
	Logger          *slog.Logger
	OTelProviders   *infrastructure.OTelProviders
	ErrorHandler    *apierrors.ErrorHandler
}

// NewApplication loads configuration from configPath (empty searches the
// default locations), applies overrides, initializes the global logger and
// wires the application
func NewApplication(configPath string, overrides ...func(*config.Config)) (*Application, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	for _, override := range overrides {
		override(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, apierrors.NewConfigError("invalid configuration", err)
	}

	if cfg.Logging.Output != "console" && cfg.Logging.FilePath == "" {
		paths, err := cfg.ResolvePaths()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve paths: %w", err)
		}
		cfg.Logging.FilePath = paths.GetLogPath(LogFileName)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return New(cfg, logger)
}

// New wires every component from an already loaded configuration
func New(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", contracts.Version))

	paths, err := cfg.ResolvePaths()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	paths.LogPathResolution(logger)

	otelProviders, err := infrastructure.InitializeOTel(cfg.Telemetry, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	cleaningMetrics, err := infrastructure.NewCleaningMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create cleaning metrics: %w", err)
	}
	hubMetrics, err := ws.NewHubMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create websocket metrics: %w", err)
	}

	hub := ws.NewHub(cfg.WebSocket, hubMetrics, logger)
	manager := files.NewManager(paths, logger)

	janitor, err := files.NewJanitor(manager, cfg.Retention, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create retention janitor: %w", err)
	}

	cleaning := services.NewCleaningService(manager, logger,
		services.WithTracer(otelProviders.Tracer),
		services.WithMetrics(cleaningMetrics),
		services.WithProgress(ws.NewProgressAdapter(hub)),
	)

	app := &Application{
		Config:          cfg,
		Paths:           paths,
		WebSocketHub:    hub,
		CleaningService: cleaning,
		HealthService:   services.NewHealthService(paths, hub, logger),
		Files:           manager,
		Janitor:         janitor,
		Logger:          logger,
		OTelProviders:   otelProviders,
		ErrorHandler:    apierrors.NewErrorHandler(logger, false),
	}

	if err := app.setupRouter(); err != nil {
		return nil, err
	}
	app.createServer()

	return app, nil
}

// setupRouter configures the HTTP router
func (a *Application) setupRouter() error {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)

	// The upgrade must not pass through wrappers that hide http.Hijacker
	r.Handle("/ws", handlers.NewWebSocketHandler(a.WebSocketHub, a.Config.WebSocket,
		a.Config.Security.AllowedOrigins, a.Logger))

	otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders.Tracer, a.OTelProviders.Meter)
	if err != nil {
		return fmt.Errorf("failed to create otel middleware: %w", err)
	}

	limit := func(next http.Handler) http.Handler { return next }
	if rl := a.Config.Security.RateLimit; rl.Enabled {
		limit = customMiddleware.NewRateLimiter(rl.RPS, rl.Burst, a.Logger).Handler
	}

	cleaningHandler := handlers.NewCleaningHandler(a.CleaningService, a.Files,
		a.Config.Server.MaxUploadBytes, a.Logger, a.ErrorHandler)
	healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)

	r.Group(func(r chi.Router) {
		r.Use(otelMiddleware.Handler)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.ErrorHandler))
		r.Use(customMiddleware.SecurityHeaders)
		r.Use(customMiddleware.CORS(a.Config.Security))

		r.Route("/api", func(r chi.Router) {
			r.Get("/health", healthHandler.HealthCheck)
			r.Get("/version", healthHandler.Version)
			r.Mount("/", cleaningHandler.Routes(limit))
		})

		if a.OTelProviders.PrometheusHTTP != nil {
			r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
		}
	})

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	a.Router = r
	return nil
}

// createServer builds the HTTP server around the router
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Start launches the background services: the progress hub and the retention janitor
func (a *Application) Start(ctx context.Context) {
	a.WebSocketHub.Start()
	a.Janitor.Start()

	a.Logger.InfoContext(ctx, "Background services started",
		slog.String("retention_schedule", a.Config.Retention.Schedule),
		slog.Duration("retention_max_age", a.Config.Retention.MaxAge))
}

// Serve starts the background services and serves HTTP on l until ctx is
// cancelled or the server fails, then shuts everything down
func (a *Application) Serve(ctx context.Context, l net.Listener) error {
	a.Start(ctx)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfoContext(gctx, "HTTP server listening", slog.String("address", l.Addr().String()))
		if err := a.Server.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return a.Stop(context.Background())
	})

	return g.Wait()
}

// Run listens on the configured port and serves until ctx is cancelled
func (a *Application) Run(ctx context.Context) error {
	l, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}
	return a.Serve(ctx, l)
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
	}

	if err := a.Janitor.Stop(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("janitor shutdown error: %w", err))
	}
	a.WebSocketHub.Stop()

	if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
		a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete",
		slog.Time("at", time.Now().UTC()))
	return errors.Join(errs...)
}

// Close releases telemetry providers without starting the server; used by
// one-shot commands
func (a *Application) Close(ctx context.Context) error {
	return a.OTelProviders.Shutdown(ctx)
}
