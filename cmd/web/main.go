package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"salesdash/internal/config"
	"salesdash/internal/handlers"
	"salesdash/internal/middleware"
	"salesdash/internal/models"
	"salesdash/internal/observability"
	"salesdash/internal/provider"
	"salesdash/internal/server"
	"salesdash/internal/services"
	"salesdash/internal/ui/templates"
)

const (
	renderTimeout    = 10 * time.Second
	cacheMaxAge      = "public, max-age=300"
	rateLimiterSweep = time.Minute
)

func dashboardPage(cfg config.DashboardConfig) http.HandlerFunc {
	data := templates.PageData{
		Regions:           models.Regions,
		MinYear:           cfg.MinYear,
		MaxYear:           cfg.MaxYear,
		DefaultTopSellers: cfg.DefaultTopSellers,
		MaxTopSellers:     services.MaxTopSellers,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
		defer cancel()

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", cacheMaxAge)
		if err := templates.Dashboard(data).Render(ctx, w); err != nil {
			http.Error(w, "render error", http.StatusInternalServerError)
		}
	}
}

func newHandler(cfg *config.Config, logger *slog.Logger, analytics *services.Analytics, rateLimiter *middleware.RateLimiter) (http.Handler, error) {
	filters := handlers.NewFilters(cfg.Dashboard)

	templateHandlers := &server.TemplateHandlers{
		Dashboard: dashboardPage(cfg.Dashboard),
	}
	srv := server.NewServer(analytics, filters, logger, templateHandlers)

	compression, err := middleware.Compression(cfg.Security)
	if err != nil {
		return nil, err
	}

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
		compression,
	)

	return middlewareChain(srv), nil
}

// shutdownReport logs the pipeline counters once the server stops.
func shutdownReport(analytics *services.Analytics, logger *slog.Logger) func(context.Context) error {
	return func(ctx context.Context) error {
		stats := analytics.Stats()
		logger.InfoContext(ctx, "analytics summary",
			"runs", stats["runs"],
			"failures", stats["failures"],
			"last_run_at", stats["last_run_at"],
		)
		return nil
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"provider", cfg.Provider.Endpoint,
		"years", []int{cfg.Dashboard.MinYear, cfg.Dashboard.MaxYear},
	)

	rateLimiter := middleware.NewRateLimiter(cfg.Security)
	analytics := services.NewAnalytics(provider.NewClient(cfg.Provider, logger), logger)

	handler, err := newHandler(cfg, logger, analytics, rateLimiter)
	if err != nil {
		logger.Error("failed to build handler", "error", err)
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)

	gracefulServer.Go(func(ctx context.Context) error {
		return rateLimiter.Run(ctx, rateLimiterSweep)
	})

	gracefulServer.RegisterShutdownHook(shutdownReport(analytics, logger))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := gracefulServer.Run(ctx); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
