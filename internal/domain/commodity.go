package domain

import "time"

// CommodityCategory groups commodities for dashboard filtering.
type CommodityCategory string

const (
	CategoryEnergy      CommodityCategory = "energy"
	CategoryMetals      CommodityCategory = "metals"
	CategoryAgriculture CommodityCategory = "agriculture"
	CategoryLivestock   CommodityCategory = "livestock"
	CategorySofts       CommodityCategory = "softs"
	CategoryIndices     CommodityCategory = "indices"
)

// ContractAddresses holds the per-chain token addresses for a commodity.
// A commodity may be tokenized on one chain only, so either field may be
// empty. EVM addresses are hex-encoded; Solana addresses are base58 mints.
type ContractAddresses struct {
	EVM    string `json:"evmAddress,omitempty"`
	Solana string `json:"solanaAddress,omitempty"`
}

// IsZero reports whether no address is populated on any chain.
func (a ContractAddresses) IsZero() bool {
	return a.EVM == "" && a.Solana == ""
}

// ForChain returns the address for the given chain, or "" when the
// commodity is not tokenized there.
func (a ContractAddresses) ForChain(chain Chain) string {
	switch chain {
	case ChainEVM:
		return a.EVM
	case ChainSolana:
		return a.Solana
	default:
		return ""
	}
}

// Commodity is one tradable entry of the price dashboard.
type Commodity struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Ticker        string            `json:"ticker,omitempty"`
	Price         float64           `json:"price"`
	Unit          string            `json:"unit"`
	Change        float64           `json:"change"`
	ChangePercent float64           `json:"changePercent"`
	LastUpdate    time.Time         `json:"lastUpdate"`
	Category      CommodityCategory `json:"category"`
	Addresses     ContractAddresses `json:"contractAddresses"`
}
