package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/thecaralice/trieve/internal/config"
	dbRedis "github.com/thecaralice/trieve/internal/db/redis"
	"github.com/thecaralice/trieve/internal/domain"
	domds "github.com/thecaralice/trieve/internal/domain/dataset"
	logpkg "github.com/thecaralice/trieve/internal/logger"
	"github.com/thecaralice/trieve/internal/metrics"
	crawlrepo "github.com/thecaralice/trieve/internal/repository/crawl"
	datasetrepo "github.com/thecaralice/trieve/internal/repository/dataset"
	chiTransport "github.com/thecaralice/trieve/internal/transport/chi"
	openaiEmb "github.com/thecaralice/trieve/internal/transport/openai"
	crawluc "github.com/thecaralice/trieve/internal/usecase/crawl"
	datasetuc "github.com/thecaralice/trieve/internal/usecase/dataset"
	healthuc "github.com/thecaralice/trieve/internal/usecase/health"
	"github.com/thecaralice/trieve/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting trieve API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register domain metrics explicitly (no init())
	metrics.RegisterDomainMetrics()

	// Default configuration for new datasets. The BM25 flag comes from
	// config (bm25_active or the BM25_ACTIVE env var).
	defaults := domds.DefaultServerConfiguration(cfg.Dataset.BM25Active)
	logger.Info("Dataset defaults resolved",
		zap.String("embedding_model", defaults.EmbeddingModelName),
		zap.Int("embedding_size", defaults.EmbeddingSize),
		zap.Bool("bm25_enabled", defaults.BM25Enabled),
	)

	// Repositories
	dsRepo := datasetrepo.New(store, defaults)
	crRepo := crawlrepo.New(store)

	// Use case services
	dsSvc := datasetuc.New(dsRepo, defaults)
	crSvc := crawluc.New(crRepo, dsSvc, logger)

	// Per-dataset query embedder factory — composition root
	embeddingAPIKey := cfg.Dataset.EmbeddingAPIKey
	embedders := func(c domds.ServerConfiguration) domain.Embedder {
		return openaiEmb.NewQueryEmbedder(c, embeddingAPIKey, logger)
	}

	// Health service probes the DB and the default embedding endpoint.
	healthSvc := healthuc.New(store, openaiEmb.NewEmbedder(defaults, embeddingAPIKey, logger), store, crawlrepo.QueueKey)

	// Requeue loop for recurring crawls
	scheduler := crawluc.NewScheduler(crSvc, logger)
	if err := scheduler.Start(); err != nil {
		logger.Fatal("Failed to start crawl scheduler", zap.Error(err))
	}
	defer scheduler.Stop()

	// Create chi server
	server := chiTransport.NewServer(dsSvc, crSvc, healthSvc, embedders, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Mount(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
