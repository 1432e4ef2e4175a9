package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/commodex/internal/domain"
)

func TestStaticStoreIsPopulated(t *testing.T) {
	s := NewStaticStore()
	ctx := context.Background()

	total, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Greater(t, total, int64(0))

	gold, err := s.GetByID(ctx, "gold")
	require.NoError(t, err)
	assert.Equal(t, "Gold", gold.Name)
	assert.Equal(t, domain.CategoryMetals, gold.Category)
	assert.Greater(t, gold.Price, 0.0)
}

func TestGetByIDUnknown(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.GetByID(context.Background(), "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListFiltersAndPaginates(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.UpsertBatch(ctx, []domain.Commodity{
		{ID: "gold", Name: "Gold", Category: domain.CategoryMetals},
		{ID: "silver", Name: "Silver", Category: domain.CategoryMetals},
		{ID: "crude-oil", Name: "Crude Oil", Category: domain.CategoryEnergy},
	}))

	metals, err := s.List(ctx, domain.ListOpts{Category: domain.CategoryMetals})
	require.NoError(t, err)
	require.Len(t, metals, 2)
	assert.Equal(t, "Gold", metals[0].Name)
	assert.Equal(t, "Silver", metals[1].Name)

	page, err := s.List(ctx, domain.ListOpts{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Gold", page[0].Name)

	empty, err := s.List(ctx, domain.ListOpts{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestUpsertRequiresID(t *testing.T) {
	s := NewMemoryStore()
	err := s.Upsert(context.Background(), domain.Commodity{Name: "Anonymous"})
	require.Error(t, err)
}

func TestStaticAddressesMatchCatalogEntries(t *testing.T) {
	addrs := StaticAddresses()
	require.NotEmpty(t, addrs)

	byID := make(map[string]domain.Commodity)
	for _, c := range Static() {
		byID[c.ID] = c
	}
	for id, a := range addrs {
		c, ok := byID[id]
		require.True(t, ok, "address entry %q has no catalog entry", id)
		assert.Equal(t, c.Addresses, a)
	}
}
