package main

import (
	"context"
	"database/sql"
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

	"github.com/halcyon-cloud/contactdex/internal/config"
	dbRedis "github.com/halcyon-cloud/contactdex/internal/db/redis"
	"github.com/halcyon-cloud/contactdex/internal/db/sqlite"
	"github.com/halcyon-cloud/contactdex/internal/domain"
	logpkg "github.com/halcyon-cloud/contactdex/internal/logger"
	"github.com/halcyon-cloud/contactdex/internal/metrics"
	contactrepo "github.com/halcyon-cloud/contactdex/internal/repository/contact"
	"github.com/halcyon-cloud/contactdex/internal/repository/embcache"
	historyrepo "github.com/halcyon-cloud/contactdex/internal/repository/history"
	vectorrepo "github.com/halcyon-cloud/contactdex/internal/repository/vector"
	chiTransport "github.com/halcyon-cloud/contactdex/internal/transport/chi"
	openaiT "github.com/halcyon-cloud/contactdex/internal/transport/openai"
	contactuc "github.com/halcyon-cloud/contactdex/internal/usecase/contact"
	healthuc "github.com/halcyon-cloud/contactdex/internal/usecase/health"
	indexuc "github.com/halcyon-cloud/contactdex/internal/usecase/index"
	interpretuc "github.com/halcyon-cloud/contactdex/internal/usecase/interpret"
	queryuc "github.com/halcyon-cloud/contactdex/internal/usecase/query"
	"github.com/halcyon-cloud/contactdex/internal/version"
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

	logger.Info("Starting contactdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("redis_addrs", cfg.Redis.Addrs),
		zap.String("database_path", cfg.Database.Path),
		zap.Bool("provider_configured", cfg.ProviderConfigured()),
	)

	// Vector store
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Redis.Addrs,
		Password: cfg.Redis.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create vector store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Redis.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Vector store not ready", zap.Error(err))
	}
	logger.Info("Connected to vector store")

	// Relational store (contacts + query history)
	database, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatal("Failed to open contact database", zap.Error(err))
	}
	defer database.Close()
	logger.Info("Contact database ready", zap.String("path", cfg.Database.Path))

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterSearchMetrics()

	// Provider chain — composition root.
	// Without an API key the service runs database-only: nil interfaces
	// (not typed nil pointers!) keep the usecases on their fallback paths.
	var embedder domain.Embedder
	var extractor interpretuc.Extractor
	var embHealth healthuc.EmbeddingChecker
	if cfg.ProviderConfigured() {
		providerTimeout := time.Duration(cfg.OpenAI.TimeoutSec) * time.Second
		base := openaiT.NewEmbedder(&openaiT.Config{
			APIKey:     cfg.OpenAI.APIKey,
			BaseURL:    cfg.OpenAI.BaseURL,
			Model:      cfg.OpenAI.EmbeddingModel,
			Dimensions: cfg.OpenAI.Dimensions,
			Provider:   "openai",
			Timeout:    providerTimeout,
			Logger:     logger,
		})
		cached := embcache.New(base, store, metrics.EmbeddingCacheTotal, logger)
		embedder = cached
		extractor = openaiT.NewExtractor(&openaiT.Config{
			APIKey:  cfg.OpenAI.APIKey,
			BaseURL: cfg.OpenAI.BaseURL,
			Model:   cfg.OpenAI.ChatModel,
			Timeout: providerTimeout,
			Logger:  logger,
		})
		embHealth = cached

		logger.Info("Embedding provider configured",
			zap.String("embedding_model", cfg.OpenAI.EmbeddingModel),
			zap.String("chat_model", cfg.OpenAI.ChatModel),
			zap.Int("dimensions", cfg.OpenAI.Dimensions),
		)
	} else {
		logger.Warn("No embedding provider configured, vector search disabled")
	}

	// Repositories
	vecRepo := vectorrepo.New(store, cfg.OpenAI.Dimensions).WithHNSW(vectorrepo.HNSWConfig{
		M:           cfg.Index.HNSWM,
		EFConstruct: cfg.Index.HNSWEFConstruct,
	})
	if err := vecRepo.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to ensure vector index", zap.Error(err))
	}
	contactRepo := contactrepo.New(database)
	historyRepo := historyrepo.New(database)

	// Use case services
	indexSvc := indexuc.New(vecRepo, embedder, logger)
	interpretSvc := interpretuc.New(extractor, logger)
	querySvc := queryuc.New(interpretSvc, indexSvc, contactRepo, historyRepo, logger)
	contactSvc := contactuc.New(contactRepo, indexSvc, logger)
	healthSvc := healthuc.New(store, sqlitePinger{db: database}, embHealth)

	// Chi server
	server := chiTransport.NewServer(querySvc, contactSvc, indexSvc, historyRepo, contactRepo, healthSvc)

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

// sqlitePinger adapts *sql.DB to the health usecase pinger contract.
type sqlitePinger struct {
	db *sql.DB
}

func (p sqlitePinger) Ping(ctx context.Context) error {
	return sqlite.Ping(ctx, p.db)
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

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
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
