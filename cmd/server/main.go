package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/joeychilson/paperoutline/cache"
	"github.com/joeychilson/paperoutline/client"
	"github.com/joeychilson/paperoutline/config"
	"github.com/joeychilson/paperoutline/logger"
	"github.com/joeychilson/paperoutline/server"
)

const (
	defaultAddr         = ":8080"
	defaultConfigFile   = "./config.yaml"
	defaultLogLevel     = "info"
	httpReadTimeout     = 30 * time.Second
	httpWriteTimeout    = 120 * time.Second
	httpIdleTimeout     = 60 * time.Second
	httpShutdownTimeout = 10 * time.Second
)

func main() {
	addr := getEnv("ADDR", defaultAddr)
	configFile := getEnv("CONFIG_FILE", defaultConfigFile)
	redisURL := getEnv("REDIS_URL", "")
	logLevel := getEnv("LOG_LEVEL", defaultLogLevel)

	var level slog.Level
	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		slog.Warn("unknown log level, using info", "level", logLevel)
		level = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	log := slog.New(handler)

	log.Info("starting paperoutline API server", "log_level", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.New()
	if _, statErr := os.Stat(configFile); statErr == nil {
		log.Info("loading config from file", "file", configFile)
		loaded, err := config.LoadConfig(configFile)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		cfg = loaded
	} else {
		log.Info("using default configuration (config file not found)", "checked", configFile)
	}

	c, err := client.New(cfg)
	if err != nil {
		log.Error("failed to create client", "error", err)
		os.Exit(1)
	}
	c = c.WithLogger(logger.New(handler))
	defer c.Close()

	var redisClient *redis.Client
	if redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Error("failed to parse redis URL", "error", err)
			os.Exit(1)
		}
		redisClient = redis.NewClient(opts)
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Error("failed to connect to redis", "error", err, "url", redisURL)
			os.Exit(1)
		}
		log.Info("redis connection established", "url", redisURL)

		c = c.WithCache(cache.NewRedisCache(redisClient, cache.Config{TTL: cfg.Cache.GetTTL()}))
		log.Info("redis cache enabled")
	}

	srv := server.New(c, log, &server.Config{
		RateLimitRequests: cfg.Server.GetRateLimitRequests(),
		RateLimitWindow:   cfg.Server.GetRateLimitWindow(),
		RedisClient:       redisClient,
	})

	if addr == defaultAddr {
		addr = cfg.Server.GetAddr()
	}

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      srv.Router(),
		ReadTimeout:  httpReadTimeout,
		WriteTimeout: httpWriteTimeout,
		IdleTimeout:  httpIdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Info("received shutdown signal", "signal", sig.String())
		cancel()
	}()

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting API server", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down API server")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), httpShutdownTimeout)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown error", "error", err)
			os.Exit(1)
		}
	case err := <-errCh:
		log.Error("server error", "error", err)
		os.Exit(1)
	}

	log.Info("server shutdown complete")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
