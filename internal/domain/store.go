package domain

import "context"

// ListOpts provides pagination and filtering for list queries.
type ListOpts struct {
	Limit    int
	Offset   int
	Category CommodityCategory
}

// CommodityStore persists the commodity catalog (metadata and per-chain token
// addresses). The in-memory catalog is the default implementation; Postgres
// backs deployments that manage the address table operationally.
type CommodityStore interface {
	Upsert(ctx context.Context, c Commodity) error
	UpsertBatch(ctx context.Context, cs []Commodity) error
	GetByID(ctx context.Context, id string) (Commodity, error)
	List(ctx context.Context, opts ListOpts) ([]Commodity, error)
	Count(ctx context.Context) (int64, error)
}
