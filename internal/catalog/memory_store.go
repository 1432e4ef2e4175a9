package catalog

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/alanyoungcy/commodex/internal/domain"
)

// MemoryStore is an in-memory implementation of domain.CommodityStore. It is
// the default catalog backend and the test double for the Postgres store.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]domain.Commodity
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]domain.Commodity)}
}

// NewStaticStore creates a MemoryStore pre-populated with the built-in
// commodity table.
func NewStaticStore() *MemoryStore {
	s := NewMemoryStore()
	for _, c := range Static() {
		s.data[c.ID] = c
	}
	return s
}

// Upsert inserts or replaces a commodity by ID.
func (s *MemoryStore) Upsert(_ context.Context, c domain.Commodity) error {
	if c.ID == "" {
		return fmt.Errorf("catalog: upsert: empty commodity id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[c.ID] = c
	return nil
}

// UpsertBatch inserts or replaces multiple commodities.
func (s *MemoryStore) UpsertBatch(ctx context.Context, cs []domain.Commodity) error {
	for _, c := range cs {
		if err := s.Upsert(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

// GetByID returns the commodity with the given ID, or domain.ErrNotFound.
func (s *MemoryStore) GetByID(_ context.Context, id string) (domain.Commodity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.data[id]
	if !ok {
		return domain.Commodity{}, fmt.Errorf("catalog: get %q: %w", id, domain.ErrNotFound)
	}
	return c, nil
}

// List returns commodities ordered by name, filtered by category when set,
// with offset/limit pagination.
func (s *MemoryStore) List(_ context.Context, opts domain.ListOpts) ([]domain.Commodity, error) {
	s.mu.RLock()
	all := make([]domain.Commodity, 0, len(s.data))
	for _, c := range s.data {
		if opts.Category != "" && c.Category != opts.Category {
			continue
		}
		all = append(all, c)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })

	if opts.Offset >= len(all) {
		return []domain.Commodity{}, nil
	}
	all = all[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(all) {
		all = all[:opts.Limit]
	}
	return all, nil
}

// Count returns the total number of commodities.
func (s *MemoryStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.data)), nil
}

// Compile-time interface check.
var _ domain.CommodityStore = (*MemoryStore)(nil)
