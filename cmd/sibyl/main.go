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

	"github.com/kailas-cloud/sibyl/internal/config"
	dbRedis "github.com/kailas-cloud/sibyl/internal/db/redis"
	logpkg "github.com/kailas-cloud/sibyl/internal/logger"
	"github.com/kailas-cloud/sibyl/internal/metrics"
	chiTransport "github.com/kailas-cloud/sibyl/internal/transport/chi"
	openaiProvider "github.com/kailas-cloud/sibyl/internal/transport/openai"
	intentuc "github.com/kailas-cloud/sibyl/internal/usecase/intent"
	policyuc "github.com/kailas-cloud/sibyl/internal/usecase/policy"
	promptuc "github.com/kailas-cloud/sibyl/internal/usecase/prompt"
	queryuc "github.com/kailas-cloud/sibyl/internal/usecase/query"
	retrievaluc "github.com/kailas-cloud/sibyl/internal/usecase/retrieval"
	"github.com/kailas-cloud/sibyl/internal/version"
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

	logger.Info("Starting sibyl API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
		Retries:  cfg.Database.ConnectRetries,
	})
	if err != nil {
		logger.Fatal("Failed to create vector store", zap.Error(err))
	}
	defer store.Close()

	// Wait for the vector store to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Vector store not ready", zap.Error(err))
	}
	logger.Info("Connected to vector store")

	// Register metrics explicitly (no init())
	metrics.RegisterCapabilityMetrics()
	metrics.RegisterPipelineMetrics()

	embedder := openaiProvider.NewEmbedder(&openaiProvider.EmbedderConfig{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Logger:     logger,
	})
	generator := openaiProvider.NewGenerator(&openaiProvider.GeneratorConfig{
		APIKey:      cfg.Generation.APIKey,
		BaseURL:     cfg.Generation.BaseURL,
		Model:       cfg.Generation.Model,
		Temperature: cfg.Generation.Temperature,
		Logger:      logger,
	})
	logger.Info("Capability providers created",
		zap.String("embedding_model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
		zap.String("generation_model", cfg.Generation.Model),
	)

	// Create use case services
	gate, err := policyuc.New(policyuc.Config{
		MinAge:            cfg.Policy.MinAge,
		RestrictedTerms:   cfg.Policy.RestrictedTerms,
		SensitiveTopics:   cfg.Policy.SensitiveTopics,
		ToneSubstitutions: cfg.Policy.ToneSubstitutions,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to build policy tables", zap.Error(err))
	}

	classifier := intentuc.New(intentuc.Config{
		Domains:  intentDomains(cfg.Intent.Domains),
		Priority: cfg.Intent.Priority,
	}, logger)

	index := retrievaluc.New(store, embedder, cfg.Retrieval.Collection, cfg.Embedding.Dimensions, logger).
		WithTopK(cfg.Retrieval.TopK)

	builder := promptuc.New(promptuc.Config{
		Separator:          cfg.Prompt.ContextSeparator,
		MaxContextChars:    cfg.Prompt.MaxContextChars,
		MaxPromptChars:     cfg.Prompt.MaxPromptChars,
		SystemInstructions: cfg.Prompt.SystemInstructions,
	}, logger)

	queries := queryuc.New(gate, classifier, index, builder, generator, logger).
		WithTopK(cfg.Retrieval.TopK).
		WithMaxTokens(cfg.Generation.MaxOutputTokens).
		WithFillerReply(cfg.Prompt.FillerReply)

	// Create chi server
	server := chiTransport.NewServer(queries, index, store, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	r.Get("/healthz", server.HealthCheck)
	r.Get("/metrics", server.Metrics)
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

func intentDomains(domains []config.IntentDomain) []intentuc.Domain {
	out := make([]intentuc.Domain, len(domains))
	for i, d := range domains {
		out[i] = intentuc.Domain{Name: d.Name, Keywords: d.Keywords}
	}
	return out
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
