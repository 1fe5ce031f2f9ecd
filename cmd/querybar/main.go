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

	"github.com/kailas-cloud/querybar/internal/config"
	"github.com/kailas-cloud/querybar/internal/db"
	dbRedis "github.com/kailas-cloud/querybar/internal/db/redis"
	logpkg "github.com/kailas-cloud/querybar/internal/logger"
	"github.com/kailas-cloud/querybar/internal/metrics"
	historyrepo "github.com/kailas-cloud/querybar/internal/repository/history"
	chiTransport "github.com/kailas-cloud/querybar/internal/transport/chi"
	gen "github.com/kailas-cloud/querybar/internal/transport/generated"
	healthuc "github.com/kailas-cloud/querybar/internal/usecase/health"
	queryuc "github.com/kailas-cloud/querybar/internal/usecase/query"
	"github.com/kailas-cloud/querybar/internal/version"
	"github.com/kailas-cloud/querybar/pkg/query"
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

	logger.Info("Starting querybar API server",
		zap.String("version", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Bool("history_enabled", cfg.History.Enabled),
	)

	registry, err := cfg.Registry()
	if err != nil {
		logger.Fatal("Invalid filter configuration", zap.Error(err))
	}
	parser := query.NewParser(registry)
	logger.Info("Filter registry loaded", zap.Int("filters", registry.Len()))

	metrics.RegisterQueryMetrics()

	// Pass nil interfaces (not typed nil pointers) when history is disabled.
	var (
		history queryuc.HistoryRepository
		pinger  healthuc.DBPinger
	)
	if cfg.History.Enabled {
		store := connectStore(cfg.Database, logger)
		defer store.Close()

		history = historyrepo.New(store, cfg.History.MaxDepth, time.Duration(cfg.History.TTLSec)*time.Second)
		pinger = store
	}

	querySvc := queryuc.New(parser, history, logger).
		WithHistoryLimits(cfg.History.DefaultLimit, cfg.History.MaxDepth)
	healthSvc := healthuc.New(pinger, registry.Len())

	server := chiTransport.NewServer(querySvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	gen.HandlerWithOptions(server, gen.ChiServerOptions{
		BaseRouter:       r,
		ErrorHandlerFunc: chiTransport.ParamErrorHandler,
	})

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

// connectStore opens the history store and waits until it answers.
// Valkey speaks the Redis protocol, so both drivers share one client.
func connectStore(cfg config.DatabaseConfig, logger *zap.Logger) db.Store {
	logger.Info("Connecting to history store",
		zap.String("db_driver", cfg.Driver),
		zap.Strings("db_addrs", cfg.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Addrs,
		Password: cfg.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}

	if err := store.WaitForReady(context.Background(), time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")
	return store
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
					_ = json.NewEncoder(w).Encode(gen.ErrorResponse{
						Code:    gen.ErrorResponseCodeInternalError,
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

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

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
