package domain

import (
	"context"
	"time"
)

// PriceCache provides fast access to the latest reference prices. Reference
// prices drive the dashboard and the Solana fallback sizing; they are never
// used for settlement.
type PriceCache interface {
	SetPrice(ctx context.Context, commodityID string, price float64, ts time.Time) error
	GetPrice(ctx context.Context, commodityID string) (float64, time.Time, error)
	GetPrices(ctx context.Context, commodityIDs []string) (map[string]float64, error)
}

// SignalBus provides pub/sub fan-out for price and trade events consumed by
// the dashboard WebSocket hub.
type SignalBus interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
}

// RateLimiter bounds request rates per key. Used by the HTTP layer to guard
// the trade endpoint.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	Wait(ctx context.Context, key string) error
}
