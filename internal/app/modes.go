package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alanyoungcy/commodex/internal/domain"
	"github.com/alanyoungcy/commodex/internal/feed"
	"github.com/alanyoungcy/commodex/internal/server"
	"github.com/alanyoungcy/commodex/internal/server/handler"
	"github.com/alanyoungcy/commodex/internal/server/ws"
)

// TradeArgs carries the parameters for a one-shot trade executed in trade
// mode, typically parsed from command-line flags.
type TradeArgs struct {
	CommodityID    string
	Side           string
	Chain          string
	Amount         float64
	ReferencePrice float64
}

// ServeMode starts the long-running backend: the reference price feed, the
// WebSocket hub, and the HTTP API server. It blocks until the context is
// cancelled or a component fails.
func (a *App) ServeMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting serve mode")

	g, ctx := errgroup.WithContext(ctx)

	// Reference price feed.
	if a.cfg.Feed.Enabled {
		interval := time.Duration(a.cfg.Feed.IntervalSeconds) * time.Second
		priceFeed := feed.New(deps.Catalog, interval, a.cfg.Feed.MaxChangePercent, a.logger)
		g.Go(func() error {
			return priceFeed.Run(ctx)
		})
	}

	// WebSocket hub bridging the signal bus to browser clients.
	var hub *ws.Hub
	if a.cfg.Server.Enabled {
		hub = ws.NewHub(deps.SignalBus, a.logger, ws.Config{
			Mode:      a.cfg.Mode,
			StartedAt: time.Now().UTC(),
		})
		g.Go(func() error {
			return hub.Run(ctx)
		})
	}

	// HTTP API server.
	if a.cfg.Server.Enabled {
		a.startHTTPServer(ctx, g, deps, hub)
	}

	return g.Wait()
}

// TradeMode executes a single trade and exits. The result is printed through
// the logger; a failed trade is reported in the result contract, not as a
// process error.
func (a *App) TradeMode(ctx context.Context, deps *Dependencies, args TradeArgs) error {
	a.logger.InfoContext(ctx, "starting trade mode",
		slog.String("commodity_id", args.CommodityID),
		slog.String("side", args.Side),
		slog.String("chain", args.Chain),
		slog.Float64("amount", args.Amount),
	)

	req := domain.TradeRequest{
		CommodityID:    args.CommodityID,
		Chain:          domain.Chain(args.Chain),
		Amount:         args.Amount,
		ReferencePrice: args.ReferencePrice,
	}

	// Enrich from the catalog when the entry exists.
	if c, err := deps.Catalog.Get(ctx, args.CommodityID); err == nil {
		req.CommodityName = c.Name
		if req.ReferencePrice == 0 {
			req.ReferencePrice = c.Price
		}
		req.Addresses = c.Addresses
	}

	var result domain.TradeResult
	if domain.Side(args.Side) == domain.SideSell {
		result = deps.Orchestrator.Sell(ctx, req)
	} else {
		result = deps.Orchestrator.Buy(ctx, req)
	}

	if result.Success {
		a.logger.InfoContext(ctx, "trade completed", slog.String("message", result.Message))
	} else {
		a.logger.WarnContext(ctx, "trade failed", slog.String("message", result.Message))
	}
	return nil
}

// startHTTPServer builds the handler set and runs the API server under the
// errgroup, shutting it down gracefully when the context is cancelled.
func (a *App) startHTTPServer(ctx context.Context, g *errgroup.Group, deps *Dependencies, hub *ws.Hub) {
	handlers := server.Handlers{
		Health:      handler.NewHealthHandler(a.logger),
		Commodities: handler.NewCommodityHandler(deps.Catalog, a.logger),
		Trades:      handler.NewTradeHandler(deps.Orchestrator, deps.Catalog, deps.SignalBus, a.logger),
	}

	srv := server.NewServer(server.Config{
		Port:        a.cfg.Server.Port,
		CORSOrigins: a.cfg.Server.CORSOrigins,
		APIKey:      a.cfg.Server.APIKey,
	}, handlers, hub, deps.RateLimiter, a.logger)

	g.Go(func() error {
		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start()
		}()

		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.logger.Warn("server shutdown error", slog.String("error", err.Error()))
			}
			return ctx.Err()
		case err := <-errCh:
			if err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		}
	})
}
