// Package feed drives the reference prices of the catalog. Without an
// upstream market-data source the feed applies a bounded random walk per
// tick, which is enough to exercise the dashboard and the fallback sizing of
// the trade core.
package feed

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/alanyoungcy/commodex/internal/domain"
	"github.com/alanyoungcy/commodex/internal/service"
)

// PriceFeed updates every catalog entry on a fixed interval.
type PriceFeed struct {
	catalog *service.CatalogService
	logger  *slog.Logger

	interval time.Duration
	// maxChangePercent bounds one tick's move in either direction.
	maxChangePercent float64
}

// New creates a PriceFeed. interval must be positive; maxChangePercent is a
// percentage (3 means at most a 3% move per tick).
func New(catalog *service.CatalogService, interval time.Duration, maxChangePercent float64, logger *slog.Logger) *PriceFeed {
	return &PriceFeed{
		catalog:          catalog,
		logger:           logger.With(slog.String("component", "price_feed")),
		interval:         interval,
		maxChangePercent: maxChangePercent,
	}
}

// Run ticks until the context is cancelled.
func (f *PriceFeed) Run(ctx context.Context) error {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	f.logger.Info("price feed started",
		slog.Duration("interval", f.interval),
		slog.Float64("max_change_percent", f.maxChangePercent))
	defer f.logger.Info("price feed stopped")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			f.tick(ctx)
		}
	}
}

func (f *PriceFeed) tick(ctx context.Context) {
	entries, err := f.catalog.List(ctx, domain.ListOpts{})
	if err != nil {
		f.logger.Warn("tick skipped", slog.String("error", err.Error()))
		return
	}

	now := time.Now().UTC()
	updated := 0
	for _, c := range entries {
		if c.Price <= 0 {
			continue
		}

		next := nextPrice(c.Price, f.maxChangePercent)
		c.Change = next - c.Price
		c.ChangePercent = c.Change / c.Price * 100
		c.Price = next
		c.LastUpdate = now

		if err := f.catalog.ApplyPriceUpdate(ctx, c); err != nil {
			f.logger.Warn("price update failed",
				slog.String("commodity_id", c.ID),
				slog.String("error", err.Error()))
			continue
		}
		updated++
	}

	f.logger.Debug("tick complete", slog.Int("updated", updated))
}

// nextPrice applies a uniform move in [-maxChangePercent, +maxChangePercent].
func nextPrice(price, maxChangePercent float64) float64 {
	delta := (rand.Float64()*2 - 1) * maxChangePercent / 100
	next := price * (1 + delta)
	if next <= 0 {
		return price
	}
	return next
}
