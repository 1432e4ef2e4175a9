package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/commodex/internal/domain"
)

func TestResolveSuppliedOverridesStatic(t *testing.T) {
	dir := New(map[string]domain.ContractAddresses{
		"gold": {EVM: "0xStaticEVM", Solana: "StaticMint"},
	})

	// A caller-supplied partial entry fully overrides the static entry; the
	// Solana field must NOT be filled in from the static table.
	got, err := dir.Resolve("gold", domain.ContractAddresses{EVM: "0xA"})
	require.NoError(t, err)
	assert.Equal(t, "0xA", got.EVM)
	assert.Empty(t, got.Solana)
}

func TestResolveStaticFallback(t *testing.T) {
	dir := New(map[string]domain.ContractAddresses{
		"silver": {EVM: "0xS", Solana: "SilverMint"},
	})

	got, err := dir.Resolve("silver", domain.ContractAddresses{})
	require.NoError(t, err)
	assert.Equal(t, "0xS", got.EVM)
	assert.Equal(t, "SilverMint", got.Solana)
}

func TestResolveNotFound(t *testing.T) {
	dir := New(nil)

	_, err := dir.Resolve("unobtainium", domain.ContractAddresses{})
	assert.ErrorIs(t, err, domain.ErrAddressNotFound)
}

func TestResolveCopiesStaticTable(t *testing.T) {
	static := map[string]domain.ContractAddresses{
		"copper": {EVM: "0xC"},
	}
	dir := New(static)

	// Mutating the caller's map after construction must not change results.
	static["copper"] = domain.ContractAddresses{EVM: "0xMUT"}

	got, err := dir.Resolve("copper", domain.ContractAddresses{})
	require.NoError(t, err)
	assert.Equal(t, "0xC", got.EVM)
}
