package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"inkwell/internal/config"
	"inkwell/internal/handler"
	"inkwell/internal/middleware"
	"inkwell/internal/repository/postgres"
	"inkwell/internal/service"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
	)

	if cfg.CodexAPIToken == "" {
		logger.Warn("CODEX_API_TOKEN not set, authoring API will reject all requests")
	}

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Logger: logger,
	}
	postRepo := postgres.NewPostRepository(repoConfig)
	newsRepo := postgres.NewNewsRepository(repoConfig)

	// Create services
	postService := service.NewPostService(postRepo, logger)
	newsService := service.NewNewsService(newsRepo, logger)

	// Create handlers
	postHandler := handler.NewPostHandler(postService, logger)
	newsHandler := handler.NewNewsHandler(newsService, logger)

	logger.Info("services initialized")

	// Codex API routes (Go 1.22+ enhanced patterns)
	api := http.NewServeMux()

	// Post routes
	api.HandleFunc("POST /api/codex/v1/posts", postHandler.Create)
	api.HandleFunc("GET /api/codex/v1/posts", postHandler.List)
	api.HandleFunc("GET /api/codex/v1/posts/by-slug/{slug}", postHandler.GetBySlug) // Must come before {id} route
	api.HandleFunc("GET /api/codex/v1/posts/{id}", postHandler.Get)
	api.HandleFunc("PATCH /api/codex/v1/posts/{id}", postHandler.Patch)

	// Tag routes
	api.HandleFunc("GET /api/codex/v1/tags", postHandler.Tags)

	// News routes
	api.HandleFunc("POST /api/codex/v1/news", newsHandler.Create)
	api.HandleFunc("GET /api/codex/v1/news", newsHandler.List)
	api.HandleFunc("GET /api/codex/v1/news/{id}", newsHandler.Get)
	api.HandleFunc("PATCH /api/codex/v1/news/{id}", newsHandler.Patch)

	// Apply middleware in reverse order (they wrap each other)
	// Order: Recovery → RateLimit → Auth → Routes
	limiter := middleware.NewSlidingWindow(cfg.RateLimitWindow, cfg.RateLimitMax)

	var apiHandler http.Handler = api
	apiHandler = middleware.RequireToken(cfg.CodexAPIToken, logger)(apiHandler)
	apiHandler = middleware.RateLimit(limiter)(apiHandler)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handler.HealthHandler)
	mux.Handle("/api/codex/v1/", apiHandler)

	var root http.Handler = mux
	root = middleware.Recovery(logger)(root)

	// CORS - outermost so OPTIONS pre-flight requests never hit auth
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM
	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
