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

	"github.com/kailas-cloud/itemsearch/internal/config"
	"github.com/kailas-cloud/itemsearch/internal/db"
	dbOpenSearch "github.com/kailas-cloud/itemsearch/internal/db/opensearch"
	dbRedis "github.com/kailas-cloud/itemsearch/internal/db/redis"
	"github.com/kailas-cloud/itemsearch/internal/domain"
	logpkg "github.com/kailas-cloud/itemsearch/internal/logger"
	"github.com/kailas-cloud/itemsearch/internal/metrics"
	"github.com/kailas-cloud/itemsearch/internal/repository/embcache"
	itemrepo "github.com/kailas-cloud/itemsearch/internal/repository/item"
	"github.com/kailas-cloud/itemsearch/internal/repository/itemcache"
	chiTransport "github.com/kailas-cloud/itemsearch/internal/transport/chi"
	openaiEmb "github.com/kailas-cloud/itemsearch/internal/transport/openai"
	embeddinguc "github.com/kailas-cloud/itemsearch/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/itemsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/itemsearch/internal/usecase/search"
	"github.com/kailas-cloud/itemsearch/internal/version"
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

	logger.Info("Starting itemsearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("search_addrs", cfg.Search.Addrs),
		zap.Strings("item_addrs", cfg.Items.Addrs),
		zap.String("index", cfg.Search.Index),
		zap.Bool("semantic", cfg.Search.ModelID != ""),
		zap.String("semantic_provider", cfg.Search.SemanticProvider),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:          cfg.Items.Addrs,
		Password:       cfg.Items.Password,
		ClientCacheTTL: time.Duration(cfg.Items.ClientCacheTTLSec) * time.Second,
	})
	if err != nil {
		logger.Fatal("Failed to create item store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Items.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Item store not ready", zap.Error(err))
	}
	logger.Info("Connected to item store")

	engine, err := dbOpenSearch.New(dbOpenSearch.Config{
		Addrs:    cfg.Search.Addrs,
		Username: cfg.Search.Username,
		Password: cfg.Search.Password,
		Timeout:  time.Duration(cfg.Search.TimeoutSec) * time.Second,
	})
	if err != nil {
		logger.Fatal("Failed to create search engine client", zap.Error(err))
	}

	// Register metrics explicitly (no init())
	metrics.RegisterSearchMetrics()
	metrics.RegisterEmbeddingMetrics()

	// Item lookup: rueidis hash per item, optionally behind an in-process LRU
	var items searchuc.ItemLookup = itemrepo.New(store, cfg.Items.KeyPrefix)
	if cfg.Items.CacheSize > 0 {
		items = itemcache.New(items, cfg.Items.CacheSize,
			time.Duration(cfg.Items.CacheTTLSec)*time.Second, metrics.ItemCacheTotal)
	}

	opts := []searchuc.Option{}
	var embHealth healthuc.EmbeddingChecker
	if cfg.Search.ClientEmbeddings() {
		embedder := buildEmbedder(cfg.Embedding, store, cfg.Items.KeyPrefix, logger)
		opts = append(opts, searchuc.WithEmbedder(embedder))
		embHealth = newEmbeddingHealthChecker(embedder)
		logger.Info("Query embedder created",
			zap.String("model", cfg.Embedding.Model),
			zap.Int("dimensions", cfg.Embedding.Dimensions),
		)
	}

	searchSvc := searchuc.New(engine, items, searchuc.Config{
		Index:            cfg.Search.Index,
		ModelID:          cfg.Search.ModelID,
		ClientEmbeddings: cfg.Search.ClientEmbeddings(),
		DefaultPageSize:  cfg.Search.DefaultPageSize,
		MaxPageSize:      cfg.Search.MaxPageSize,
	}, logger, opts...)

	healthSvc := healthuc.New(store, engine, embHealth)

	server := chiTransport.NewServer(searchSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(chiTransport.ViewerMiddleware)
	r.Use(metrics.Middleware("/health", "/metrics"))
	server.Register(r)

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

// embeddingHealthChecker wraps domain.Embedder to implement health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instrumented -> Instruction
func buildEmbedder(
	embCfg config.EmbeddingConfig,
	store db.Store,
	keyPrefix string,
	logger *zap.Logger,
) domain.Embedder {
	// Base provider (with transport metrics built-in)
	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     embCfg.APIKey,
		BaseURL:    embCfg.BaseURL,
		Model:      embCfg.Model,
		Dimensions: embCfg.Dimensions,
		Provider:   openaiEmb.DefaultProvider,
		Timeout:    5 * time.Second,
		Logger:     logger,
	})

	// Cached
	var embedder domain.Embedder = base
	if embCfg.CacheTTLSec > 0 {
		embedder = embcache.New(base, store, keyPrefix, embCfg.Model,
			time.Duration(embCfg.CacheTTLSec)*time.Second, metrics.EmbeddingCacheTotal, logger)
	}

	// Instrumented (logging + dimension guard)
	embedder = embeddinguc.NewInstrumentedEmbedder(
		embedder, openaiEmb.DefaultProvider, embCfg.Model, embCfg.Dimensions, logger,
	)

	// Instruction prefix (outermost, so the cache key includes the instruction)
	if embCfg.Instruction != "" {
		return domain.NewInstructionEmbedder(embedder, embCfg.Instruction)
	}

	return embedder
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
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.CodeInternalError,
						Message: "internal error",
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

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line; the raw query carries search text, so only its size is logged
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("query_bytes", len(r.URL.RawQuery)),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
