package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/stylesearch/internal/config"
	"github.com/kailas-cloud/stylesearch/internal/db"
	"github.com/kailas-cloud/stylesearch/internal/db/memory"
	dbRedis "github.com/kailas-cloud/stylesearch/internal/db/redis"
	logpkg "github.com/kailas-cloud/stylesearch/internal/logger"
	"github.com/kailas-cloud/stylesearch/internal/metrics"
	sessionrepo "github.com/kailas-cloud/stylesearch/internal/repository/session"
	chiTransport "github.com/kailas-cloud/stylesearch/internal/transport/chi"
	"github.com/kailas-cloud/stylesearch/internal/transport/recommender"
	healthuc "github.com/kailas-cloud/stylesearch/internal/usecase/health"
	"github.com/kailas-cloud/stylesearch/internal/usecase/normalize"
	searchuc "github.com/kailas-cloud/stylesearch/internal/usecase/search"
	"github.com/kailas-cloud/stylesearch/internal/usecase/sessionlock"
	sessionuc "github.com/kailas-cloud/stylesearch/internal/usecase/session"
	"github.com/kailas-cloud/stylesearch/internal/version"
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

	logger.Info("Starting stylesearch API server",
		zap.String("build", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("recommender_url", cfg.Recommender.BaseURL),
		zap.String("session_driver", cfg.Session.Driver),
	)

	store, err := newStore(cfg.Session)
	if err != nil {
		logger.Fatal("Failed to create session store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Session.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Session store not ready", zap.Error(err))
	}
	logger.Info("Session store ready")

	// Register recommender metrics explicitly (no init())
	metrics.RegisterRecommenderMetrics()

	client := recommender.NewClient(&recommender.Config{
		BaseURL:   cfg.Recommender.BaseURL,
		UserAgent: cfg.Recommender.UserAgent,
		Logger:    logger,
	})

	seed := cfg.Normalize.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano()) //nolint:gosec // non-negative clock value
	}
	normalizer := normalize.New(rand.New(rand.NewPCG(seed, seed>>1|1)), metrics.NormalizeDrops{}, logger) //nolint:gosec // display prices only

	// One lock set shared by every writer of session state.
	locks := sessionlock.New()
	repo := sessionrepo.New(store, time.Duration(cfg.Session.TTLSec)*time.Second)

	sessionSvc := sessionuc.New(repo, locks)
	searchSvc := searchuc.New(client, normalizer, repo, locks)
	healthSvc := healthuc.New(store, client)

	server := chiTransport.NewServer(sessionSvc, searchSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
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

// newStore creates the session store for the configured driver.
// Valkey and Redis share the rueidis client.
func newStore(cfg config.SessionConfig) (db.Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return memory.NewStore(), nil
	case config.DriverValkey, config.DriverRedis:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Password: cfg.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("%s store: %w", cfg.Driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown session driver %q", cfg.Driver)
	}
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.String("path", r.URL.Path),
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

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line: one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("route", chi.RouteContext(r.Context()).RoutePattern()),
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
