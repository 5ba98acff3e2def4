package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dhchun1203/Trend-Analyzer-project/backend"
	"github.com/dhchun1203/Trend-Analyzer-project/cache"
	"github.com/dhchun1203/Trend-Analyzer-project/config"
	"github.com/dhchun1203/Trend-Analyzer-project/handler"
	appLogger "github.com/dhchun1203/Trend-Analyzer-project/logger"
	"github.com/dhchun1203/Trend-Analyzer-project/middleware"
	redisClient "github.com/dhchun1203/Trend-Analyzer-project/redis"
	"github.com/dhchun1203/Trend-Analyzer-project/session"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg := config.MustLoadConfig()

	// Initialize logger
	appLogger.Initialize(cfg.Logging)
	log.Info().Str("backend", cfg.Backend.BaseURL).Msg("Configuration loaded successfully")

	// Initialize cache (a disabled cache is a no-op)
	cacheClient, err := cache.New(cfg.Cache)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize cache")
	}
	if !cfg.Cache.Enabled {
		log.Info().Msg("Cache disabled in configuration")
	}

	// Redis only backs session persistence and is optional
	var rdb *redis.Client
	var persister session.Persister
	if cfg.Redis.Enabled {
		rdb, err = redisClient.NewClient(context.Background(), cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		persister = session.NewRedisPersister(rdb, time.Duration(cfg.Session.TTLSeconds)*time.Second)
	} else {
		log.Info().Msg("Redis disabled, sessions are kept in memory only")
	}

	sessions := session.NewManager(cfg.Session, persister)
	sessions.StartCleanup(time.Minute)

	pageHandler, err := handler.NewPageHandler(backend.NewClient(cfg.Backend), cacheClient, sessions, rdb, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize page handler")
	}

	// Set up router
	r := mux.NewRouter()

	// Apply global middleware
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	botProtection := middleware.NewBotProtection(cfg.Security.BotMaxRequestsPerMinute, cfg.Security.BotDetectionEnabled, rdb)

	stopLimiterCleanup := make(chan struct{})
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rateLimiter.Forget(10 * time.Minute)
			case <-stopLimiterCleanup:
				return
			}
		}
	}()

	r.Use(middleware.CORS)
	r.Use(middleware.RequestLogger)
	r.Use(rateLimiter.Limit)
	r.Use(botProtection.Protect)

	// Register routes
	pageHandler.Routes(r)

	opsAuth := middleware.NewOpsAuth(cfg.Security.OpsAPIKey)
	r.Handle("/cache/metrics", opsAuth.Protect(http.HandlerFunc(pageHandler.CacheMetrics))).Methods(http.MethodGet)
	r.Handle("/security/stats", opsAuth.Protect(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		stats, err := botProtection.Stats(req.Context())
		if err != nil {
			log.Warn().Err(err).Msg("Failed to read bot detection counts")
		}
		handler.SendJSON(w, http.StatusOK, stats)
	}))).Methods(http.MethodGet)

	// Configure HTTP server
	serverAddress := fmt.Sprintf("%s:%s", cfg.WebServer.IP, cfg.WebServer.Port)
	server := &http.Server{
		Addr:         serverAddress,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.WebServer.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WebServer.WriteTimeout) * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("address", serverAddress).
			Str("scheme", cfg.WebServer.Scheme).
			Msg("Starting server")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.WebServer.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	close(stopLimiterCleanup)
	sessions.Close()
	botProtection.Close()
	cacheClient.Close()

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close Redis connection")
		}
	}

	log.Info().Msg("Server stopped gracefully")
}
