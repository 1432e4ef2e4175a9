package domain

// Chain identifies the blockchain a trade executes on.
type Chain string

const (
	ChainEVM    Chain = "evm"
	ChainSolana Chain = "solana"
)

// Valid reports whether the chain is one of the supported values.
func (c Chain) Valid() bool {
	return c == ChainEVM || c == ChainSolana
}

// Side is the direction of a trade.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Valid reports whether the side is one of the supported values.
func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

// TradeRequest is the unit of work submitted to the trade orchestrator.
//
// Amount is the user-facing quantity in the commodity's base unit, not in
// token decimals; executors convert it to fixed-point chain amounts.
// ReferencePrice is the last known fiat price per unit and is used only for
// fallback sizing and estimates, never for settlement.
type TradeRequest struct {
	ID             string
	CommodityID    string
	CommodityName  string
	Side           Side
	Chain          Chain
	Amount         float64
	ReferencePrice float64

	// Addresses are the caller-supplied per-chain token addresses from the
	// commodity's own record. When populated they fully override the static
	// directory entry; they are never merged field-by-field.
	Addresses ContractAddresses
}

// TradeResult is the single normalized outcome contract. Every path through
// the core terminates in exactly one TradeResult; errors never propagate
// past the orchestrator boundary.
type TradeResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
