package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alanyoungcy/commodex/internal/domain"
)

// CommodityStore implements domain.CommodityStore using PostgreSQL.
type CommodityStore struct {
	pool *pgxpool.Pool
}

// NewCommodityStore creates a CommodityStore backed by the given pool.
func NewCommodityStore(pool *pgxpool.Pool) *CommodityStore {
	return &CommodityStore{pool: pool}
}

const upsertCommodityQuery = `
	INSERT INTO commodities (
		id, name, ticker, price, unit,
		change, change_percent, category,
		evm_address, solana_address, last_update, updated_at
	) VALUES (
		$1, $2, $3, $4, $5,
		$6, $7, $8,
		$9, $10, $11, NOW()
	)
	ON CONFLICT (id) DO UPDATE SET
		name           = EXCLUDED.name,
		ticker         = EXCLUDED.ticker,
		price          = EXCLUDED.price,
		unit           = EXCLUDED.unit,
		change         = EXCLUDED.change,
		change_percent = EXCLUDED.change_percent,
		category       = EXCLUDED.category,
		evm_address    = EXCLUDED.evm_address,
		solana_address = EXCLUDED.solana_address,
		last_update    = EXCLUDED.last_update,
		updated_at     = NOW()`

// Upsert inserts or updates a single commodity.
func (s *CommodityStore) Upsert(ctx context.Context, c domain.Commodity) error {
	_, err := s.pool.Exec(ctx, upsertCommodityQuery,
		c.ID, c.Name, c.Ticker, c.Price, c.Unit,
		c.Change, c.ChangePercent, string(c.Category),
		c.Addresses.EVM, c.Addresses.Solana, c.LastUpdate,
	)
	if err != nil {
		return fmt.Errorf("postgres: upsert commodity %s: %w", c.ID, err)
	}
	return nil
}

// UpsertBatch inserts or updates multiple commodities in one batch round trip.
func (s *CommodityStore) UpsertBatch(ctx context.Context, cs []domain.Commodity) error {
	if len(cs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, c := range cs {
		batch.Queue(upsertCommodityQuery,
			c.ID, c.Name, c.Ticker, c.Price, c.Unit,
			c.Change, c.ChangePercent, string(c.Category),
			c.Addresses.EVM, c.Addresses.Solana, c.LastUpdate,
		)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := range cs {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("postgres: upsert commodity batch item %s: %w", cs[i].ID, err)
		}
	}
	return nil
}

const selectCommodityColumns = `
	id, name, ticker, price, unit,
	change, change_percent, category,
	evm_address, solana_address, last_update`

// GetByID returns a single commodity. It returns domain.ErrNotFound when the
// id does not exist.
func (s *CommodityStore) GetByID(ctx context.Context, id string) (domain.Commodity, error) {
	query := "SELECT " + selectCommodityColumns + " FROM commodities WHERE id = $1"

	row := s.pool.QueryRow(ctx, query, id)
	c, err := scanCommodity(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Commodity{}, fmt.Errorf("postgres: commodity %s: %w", id, domain.ErrNotFound)
		}
		return domain.Commodity{}, fmt.Errorf("postgres: get commodity %s: %w", id, err)
	}
	return c, nil
}

// List returns commodities ordered by name, optionally filtered by category.
func (s *CommodityStore) List(ctx context.Context, opts domain.ListOpts) ([]domain.Commodity, error) {
	query := "SELECT " + selectCommodityColumns + " FROM commodities"
	args := []any{}

	if opts.Category != "" {
		args = append(args, string(opts.Category))
		query += fmt.Sprintf(" WHERE category = $%d", len(args))
	}
	query += " ORDER BY name"
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list commodities: %w", err)
	}
	defer rows.Close()

	var out []domain.Commodity
	for rows.Next() {
		c, err := scanCommodity(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan commodity: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list commodities: %w", err)
	}
	return out, nil
}

// Count returns the number of catalog entries.
func (s *CommodityStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM commodities").Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres: count commodities: %w", err)
	}
	return count, nil
}

func scanCommodity(row pgx.Row) (domain.Commodity, error) {
	var c domain.Commodity
	var category string
	err := row.Scan(
		&c.ID, &c.Name, &c.Ticker, &c.Price, &c.Unit,
		&c.Change, &c.ChangePercent, &category,
		&c.Addresses.EVM, &c.Addresses.Solana, &c.LastUpdate,
	)
	if err != nil {
		return domain.Commodity{}, err
	}
	c.Category = domain.CommodityCategory(category)
	return c, nil
}

// Compile-time interface check.
var _ domain.CommodityStore = (*CommodityStore)(nil)
