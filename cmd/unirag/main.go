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
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/unirag/internal/config"
	dbRedis "github.com/kailas-cloud/unirag/internal/db/redis"
	logpkg "github.com/kailas-cloud/unirag/internal/logger"
	"github.com/kailas-cloud/unirag/internal/metrics"
	chunkrepo "github.com/kailas-cloud/unirag/internal/repository/chunk"
	"github.com/kailas-cloud/unirag/internal/repository/embcache"
	pagerepo "github.com/kailas-cloud/unirag/internal/repository/page"
	tenantrepo "github.com/kailas-cloud/unirag/internal/repository/tenant"
	chiTransport "github.com/kailas-cloud/unirag/internal/transport/chi"
	openaiTransport "github.com/kailas-cloud/unirag/internal/transport/openai"
	chatuc "github.com/kailas-cloud/unirag/internal/usecase/chat"
	healthuc "github.com/kailas-cloud/unirag/internal/usecase/health"
	retrievaluc "github.com/kailas-cloud/unirag/internal/usecase/retrieval"
	"github.com/kailas-cloud/unirag/internal/version"
)

func main() {
	// .env is optional; real deployments pass env vars directly.
	_ = godotenv.Load()

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

	logger.Info("Starting unirag API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register Prometheus metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterRetrievalMetrics()

	// Embedder chain: OpenAI -> two-tier cache
	baseEmbedder := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     cfg.OpenAI.APIKey,
		BaseURL:    cfg.OpenAI.BaseURL,
		Model:      cfg.OpenAI.EmbeddingModel,
		Dimensions: cfg.OpenAI.EmbeddingDimensions,
		Provider:   "openai",
		Logger:     logger,
	})
	embedder, err := embcache.New(baseEmbedder, store, cfg.Cache.EmbeddingLRUSize)
	if err != nil {
		logger.Fatal("Failed to create embedding cache", zap.Error(err))
	}
	if cfg.Cache.EmbeddingTTLSec > 0 {
		embedder.WithTTL(time.Duration(cfg.Cache.EmbeddingTTLSec) * time.Second)
	}
	logger.Info("Embedder created",
		zap.String("model", cfg.OpenAI.EmbeddingModel),
		zap.Int("dimensions", cfg.OpenAI.EmbeddingDimensions),
	)

	completer := openaiTransport.NewCompleter(&openaiTransport.CompleterConfig{
		APIKey:      cfg.OpenAI.APIKey,
		BaseURL:     cfg.OpenAI.BaseURL,
		Model:       cfg.OpenAI.ChatModel,
		Temperature: cfg.OpenAI.ChatTemperature,
		MaxTokens:   cfg.OpenAI.ChatMaxTokens,
		Logger:      logger,
	})

	// Repositories over the read-only knowledge base
	chunks := chunkrepo.New(store, cfg.OpenAI.EmbeddingDimensions).WithHNSW(chunkrepo.HNSWConfig{
		M:           cfg.Index.HNSWM,
		EFConstruct: cfg.Index.HNSWEFConstruct,
	})
	pages := pagerepo.New(store)
	tenants := tenantrepo.New(store)

	if err := chunks.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to ensure chunk index", zap.Error(err))
	}
	if err := pages.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to ensure page index", zap.Error(err))
	}

	// Use case services
	retrievalSvc := retrievaluc.New(embedder, chunks, chunks, pages, retrievalParams(cfg.Retrieval))
	chatSvc := chatuc.New(tenants, retrievalSvc, completer)
	healthSvc := healthuc.New(store, baseEmbedder)

	server := chiTransport.NewServer(chatSvc, retrievalSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

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

// retrievalParams overlays config values on the pipeline defaults; zero
// means "keep the default".
func retrievalParams(rc config.RetrievalConfig) retrievaluc.Params {
	p := retrievaluc.DefaultParams()
	if rc.VectorThreshold > 0 {
		p.VectorThreshold = rc.VectorThreshold
	}
	if rc.VectorLimit > 0 {
		p.VectorLimit = rc.VectorLimit
	}
	if rc.ChunkKeywordLimit > 0 {
		p.ChunkKeywordLimit = rc.ChunkKeywordLimit
	}
	if rc.PageKeywordLimit > 0 {
		p.PageKeywordLimit = rc.PageKeywordLimit
	}
	if rc.ChunkSearchTrigger > 0 {
		p.ChunkSearchTrigger = rc.ChunkSearchTrigger
	}
	if rc.PageSearchTrigger > 0 {
		p.PageSearchTrigger = rc.PageSearchTrigger
	}
	if rc.MaxContextChars > 0 {
		p.MaxContextChars = rc.MaxContextChars
	}
	if rc.StageTimeoutSec > 0 {
		p.StageTimeout = time.Duration(rc.StageTimeoutSec) * time.Second
	}
	return p
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
