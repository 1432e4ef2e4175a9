// Package service coordinates the commodity catalog across its backing
// store, the reference price cache and the signal bus.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/alanyoungcy/commodex/internal/cache/redis"
	"github.com/alanyoungcy/commodex/internal/domain"
)

// CatalogService is the read/write surface for the commodity catalog used by
// the HTTP handlers and the price feed.
type CatalogService struct {
	store  domain.CommodityStore
	prices domain.PriceCache
	bus    domain.SignalBus
	logger *slog.Logger
}

// NewCatalogService creates a CatalogService with all required dependencies.
func NewCatalogService(
	store domain.CommodityStore,
	prices domain.PriceCache,
	bus domain.SignalBus,
	logger *slog.Logger,
) *CatalogService {
	return &CatalogService{
		store:  store,
		prices: prices,
		bus:    bus,
		logger: logger.With(slog.String("component", "catalog")),
	}
}

// Seed upserts the given entries into the store and primes the price cache.
// Called once at startup with the static catalog.
func (s *CatalogService) Seed(ctx context.Context, entries []domain.Commodity) error {
	if err := s.store.UpsertBatch(ctx, entries); err != nil {
		return fmt.Errorf("catalog: seed: %w", err)
	}

	for _, c := range entries {
		if err := s.prices.SetPrice(ctx, c.ID, c.Price, c.LastUpdate); err != nil {
			s.logger.WarnContext(ctx, "price cache prime failed",
				slog.String("commodity_id", c.ID),
				slog.String("error", err.Error()))
		}
	}

	s.logger.InfoContext(ctx, "catalog seeded", slog.Int("count", len(entries)))
	return nil
}

// List returns catalog entries with the freshest cached reference price
// overlaid on each.
func (s *CatalogService) List(ctx context.Context, opts domain.ListOpts) ([]domain.Commodity, error) {
	entries, err := s.store.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("catalog: list: %w", err)
	}

	ids := make([]string, len(entries))
	for i, c := range entries {
		ids[i] = c.ID
	}
	cached, err := s.prices.GetPrices(ctx, ids)
	if err != nil {
		// Stale store prices are better than no listing.
		s.logger.WarnContext(ctx, "price overlay failed", slog.String("error", err.Error()))
		return entries, nil
	}

	for i := range entries {
		if price, ok := cached[entries[i].ID]; ok {
			entries[i].Price = price
		}
	}
	return entries, nil
}

// Get returns one catalog entry with the cached reference price overlaid.
func (s *CatalogService) Get(ctx context.Context, id string) (domain.Commodity, error) {
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return domain.Commodity{}, fmt.Errorf("catalog: get %q: %w", id, err)
	}

	if price, ts, cacheErr := s.prices.GetPrice(ctx, id); cacheErr == nil {
		c.Price = price
		c.LastUpdate = ts
	}
	return c, nil
}

// Count returns the number of catalog entries.
func (s *CatalogService) Count(ctx context.Context) (int64, error) {
	return s.store.Count(ctx)
}

// ApplyPriceUpdate persists an updated commodity, refreshes the price cache
// and fans the update out on the prices channel. Bus failures are logged,
// not returned; the persisted state is authoritative.
func (s *CatalogService) ApplyPriceUpdate(ctx context.Context, c domain.Commodity) error {
	if err := s.store.Upsert(ctx, c); err != nil {
		return fmt.Errorf("catalog: price update %q: %w", c.ID, err)
	}
	if err := s.prices.SetPrice(ctx, c.ID, c.Price, c.LastUpdate); err != nil {
		return fmt.Errorf("catalog: price cache %q: %w", c.ID, err)
	}

	evt, _ := json.Marshal(map[string]any{
		"event":          "price_update",
		"commodity_id":   c.ID,
		"price":          c.Price,
		"change":         c.Change,
		"change_percent": c.ChangePercent,
		"timestamp":      c.LastUpdate.Format(time.RFC3339Nano),
	})
	if pubErr := s.bus.Publish(ctx, redis.ChannelPrices, evt); pubErr != nil {
		s.logger.WarnContext(ctx, "publish price update failed",
			slog.String("commodity_id", c.ID),
			slog.String("error", pubErr.Error()))
	}
	return nil
}
