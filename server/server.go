package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v3"
	"github.com/redis/go-redis/v9"

	"github.com/joeychilson/paperoutline/client"
)

// Outliner extracts paper outlines. Satisfied by *client.Client.
type Outliner interface {
	Outline(ctx context.Context, url string) (*client.Result, error)
}

// Config holds configuration for the API server.
type Config struct {
	// RateLimitRequests is the number of requests allowed per window per IP.
	RateLimitRequests int
	// RateLimitWindow is the time window for rate limiting.
	RateLimitWindow time.Duration
	// RedisClient enables Redis-backed rate limiting when set.
	RedisClient *redis.Client
}

// Server is the HTTP server for the outline API.
type Server struct {
	outliner Outliner
	logger   *slog.Logger
	router   *chi.Mux
}

// New creates the API server with its chi router and middleware stack.
func New(o Outliner, log *slog.Logger, cfg *Config) *Server {
	if log == nil {
		log = slog.Default()
	}
	if cfg == nil {
		cfg = &Config{}
	}

	s := &Server{outliner: o, logger: log}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(httplog.RequestLogger(log, &httplog.Options{
		Level:         slog.LevelInfo,
		RecoverPanics: true,
	}))
	r.Use(RateLimit(RateLimitConfig{
		RequestLimit:   cfg.RateLimitRequests,
		WindowDuration: cfg.RateLimitWindow,
		RedisClient:    cfg.RedisClient,
	}))

	r.Post("/v1/outline", s.handleOutline)
	r.Get("/v1/outline/download", s.handleDownload)
	r.Get("/health", s.handleHealth)

	s.router = r
	return s
}

// Router returns the HTTP handler for the server.
func (s *Server) Router() *chi.Mux {
	return s.router
}
