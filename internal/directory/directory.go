// Package directory resolves a commodity's per-chain token addresses. It is
// a pure lookup layer: no mutation, no network I/O. The static fallback table
// is injected at construction so tests can substitute their own.
package directory

import (
	"fmt"

	"github.com/alanyoungcy/commodex/internal/domain"
)

// Directory maps commodity identifiers to their on-chain token addresses.
type Directory struct {
	static map[string]domain.ContractAddresses
}

// New creates a Directory with the given static fallback table. The map is
// copied so later mutation by the caller cannot affect resolution.
func New(static map[string]domain.ContractAddresses) *Directory {
	table := make(map[string]domain.ContractAddresses, len(static))
	for id, addrs := range static {
		table[id] = addrs
	}
	return &Directory{static: table}
}

// Resolve returns the token addresses for commodityID. Caller-supplied
// addresses take full precedence over the static table: when supplied is
// non-zero it is returned as-is, never merged field-by-field with the static
// entry. When neither source has an entry, domain.ErrAddressNotFound is
// returned.
func (d *Directory) Resolve(commodityID string, supplied domain.ContractAddresses) (domain.ContractAddresses, error) {
	if !supplied.IsZero() {
		return supplied, nil
	}
	if addrs, ok := d.static[commodityID]; ok {
		return addrs, nil
	}
	return domain.ContractAddresses{}, fmt.Errorf("directory: resolve %q: %w", commodityID, domain.ErrAddressNotFound)
}
