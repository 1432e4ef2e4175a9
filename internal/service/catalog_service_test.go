package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/commodex/internal/cache/redis"
	"github.com/alanyoungcy/commodex/internal/catalog"
	"github.com/alanyoungcy/commodex/internal/domain"
)

type fakePriceCache struct {
	mu     sync.Mutex
	prices map[string]float64
	times  map[string]time.Time
	getErr error
}

func newFakePriceCache() *fakePriceCache {
	return &fakePriceCache{
		prices: make(map[string]float64),
		times:  make(map[string]time.Time),
	}
}

func (f *fakePriceCache) SetPrice(_ context.Context, id string, price float64, ts time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prices[id] = price
	f.times[id] = ts
	return nil
}

func (f *fakePriceCache) GetPrice(_ context.Context, id string) (float64, time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return 0, time.Time{}, f.getErr
	}
	p, ok := f.prices[id]
	if !ok {
		return 0, time.Time{}, errors.New("miss")
	}
	return p, f.times[id], nil
}

func (f *fakePriceCache) GetPrices(_ context.Context, ids []string) (map[string]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	out := make(map[string]float64)
	for _, id := range ids {
		if p, ok := f.prices[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type fakeBus struct {
	mu        sync.Mutex
	published map[string][][]byte
}

func newFakeBus() *fakeBus {
	return &fakeBus{published: make(map[string][][]byte)}
}

func (f *fakeBus) Publish(_ context.Context, channel string, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published[channel] = append(f.published[channel], payload)
	return nil
}

func (f *fakeBus) Subscribe(context.Context, string) (<-chan []byte, error) {
	return nil, errors.New("not implemented")
}

func newService(t *testing.T) (*CatalogService, *fakePriceCache, *fakeBus) {
	t.Helper()
	prices := newFakePriceCache()
	bus := newFakeBus()
	store := catalog.NewMemoryStore()
	svc := NewCatalogService(store, prices, bus, slog.New(slog.DiscardHandler))
	return svc, prices, bus
}

func TestSeedPrimesPriceCache(t *testing.T) {
	svc, prices, _ := newService(t)
	ctx := context.Background()

	entries := []domain.Commodity{
		{ID: "gold", Name: "Gold", Price: 2400, Category: domain.CategoryMetals},
		{ID: "crude-oil", Name: "Crude Oil", Price: 80, Category: domain.CategoryEnergy},
	}
	require.NoError(t, svc.Seed(ctx, entries))

	p, _, err := prices.GetPrice(ctx, "gold")
	require.NoError(t, err)
	assert.Equal(t, 2400.0, p)

	total, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestListOverlaysCachedPrices(t *testing.T) {
	svc, prices, _ := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.Seed(ctx, []domain.Commodity{
		{ID: "gold", Name: "Gold", Price: 2400, Category: domain.CategoryMetals},
	}))
	require.NoError(t, prices.SetPrice(ctx, "gold", 2450, time.Now()))

	entries, err := svc.List(ctx, domain.ListOpts{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 2450.0, entries[0].Price)
}

func TestListToleratesCacheFailure(t *testing.T) {
	svc, prices, _ := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.Seed(ctx, []domain.Commodity{
		{ID: "gold", Name: "Gold", Price: 2400, Category: domain.CategoryMetals},
	}))
	prices.getErr = errors.New("redis down")

	entries, err := svc.List(ctx, domain.ListOpts{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 2400.0, entries[0].Price)
}

func TestGetUnknownCommodity(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.Get(context.Background(), "unobtanium")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApplyPriceUpdatePersistsCachesAndPublishes(t *testing.T) {
	svc, prices, bus := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.Seed(ctx, []domain.Commodity{
		{ID: "gold", Name: "Gold", Price: 2400, Category: domain.CategoryMetals},
	}))

	now := time.Now().UTC()
	require.NoError(t, svc.ApplyPriceUpdate(ctx, domain.Commodity{
		ID: "gold", Name: "Gold", Price: 2500, Change: 100, ChangePercent: 4.1667,
		Category: domain.CategoryMetals, LastUpdate: now,
	}))

	c, err := svc.Get(ctx, "gold")
	require.NoError(t, err)
	assert.Equal(t, 2500.0, c.Price)

	p, _, err := prices.GetPrice(ctx, "gold")
	require.NoError(t, err)
	assert.Equal(t, 2500.0, p)

	msgs := bus.published[redis.ChannelPrices]
	require.Len(t, msgs, 1)
	var evt map[string]any
	require.NoError(t, json.Unmarshal(msgs[0], &evt))
	assert.Equal(t, "price_update", evt["event"])
	assert.Equal(t, "gold", evt["commodity_id"])
	assert.Equal(t, 2500.0, evt["price"])
}
