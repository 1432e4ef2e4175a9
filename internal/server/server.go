package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alanyoungcy/commodex/internal/domain"
	"github.com/alanyoungcy/commodex/internal/server/handler"
	"github.com/alanyoungcy/commodex/internal/server/middleware"
	"github.com/alanyoungcy/commodex/internal/server/ws"
)

// Config holds the HTTP server configuration.
type Config struct {
	Port        int
	CORSOrigins []string
	APIKey      string // if empty, authentication is disabled

	// Trade endpoint rate limiting. Applied only when a limiter is
	// provided to NewServer.
	TradeRateLimit  int
	TradeRateWindow time.Duration
}

// Handlers aggregates all HTTP handlers that the server needs to register.
type Handlers struct {
	Health      *handler.HealthHandler
	Commodities *handler.CommodityHandler
	Trades      *handler.TradeHandler
}

// Server is the headless HTTP + WebSocket API server.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	logger     *slog.Logger
}

// NewServer creates a new Server with all routes registered on the ServeMux.
// It wires up middleware (logging, CORS, auth, per-route rate limiting) and
// attaches the WebSocket hub. The limiter may be nil, in which case the
// trade endpoint is unthrottled.
func NewServer(cfg Config, handlers Handlers, wsHub *ws.Hub, limiter domain.RateLimiter, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	// Health check (no auth required).
	mux.HandleFunc("GET /api/health", handlers.Health.HealthCheck)

	// Commodity catalog endpoints.
	mux.HandleFunc("GET /api/commodities", handlers.Commodities.ListCommodities)
	mux.HandleFunc("GET /api/commodities/{id}", handlers.Commodities.GetCommodity)

	// Trade execution endpoint, rate limited per client IP.
	var placeTrade http.Handler = http.HandlerFunc(handlers.Trades.PlaceTrade)
	if limiter != nil {
		limit, window := cfg.TradeRateLimit, cfg.TradeRateWindow
		if limit <= 0 {
			limit = 10
		}
		if window <= 0 {
			window = time.Minute
		}
		placeTrade = middleware.RateLimit(limiter, "trades", limit, window)(placeTrade)
	}
	mux.Handle("POST /api/trades", placeTrade)

	// WebSocket endpoint.
	if wsHub != nil {
		mux.HandleFunc("GET /ws", wsHub.HandleWS)
	}

	// Build the middleware chain.
	var h http.Handler = mux

	// Apply auth middleware (skips if APIKey is empty). The health probe
	// and the dashboard WebSocket handshake stay anonymous.
	h = middleware.Auth(cfg.APIKey, "/api/health", "/ws")(h)

	// Apply request logging middleware.
	h = middleware.Logging(logger)(h)

	// Apply CORS middleware.
	h = middleware.CORS(cfg.CORSOrigins)(h)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: srv,
		mux:        mux,
		logger:     logger,
	}
}

// Start begins listening for HTTP requests. It blocks until the server
// encounters an error or is shut down.
func (s *Server) Start() error {
	s.logger.Info("server: starting",
		slog.String("addr", s.httpServer.Addr),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server, waiting for in-flight requests
// to complete within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server: shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
