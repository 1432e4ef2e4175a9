package jupiter

// Quote is the response of the v6 quote endpoint. Amounts are strings in
// smallest units; they are parsed by the caller to preserve precision.
type Quote struct {
	InputMint            string          `json:"inputMint"`
	OutputMint           string          `json:"outputMint"`
	InAmount             string          `json:"inAmount"`
	OutAmount            string          `json:"outAmount"`
	OtherAmountThreshold string          `json:"otherAmountThreshold"`
	SwapMode             string          `json:"swapMode"`
	SlippageBps          int             `json:"slippageBps"`
	PriceImpactPct       string          `json:"priceImpactPct"`
	RoutePlan            []RoutePlanStep `json:"routePlan"`
}

// RoutePlanStep is one hop of the aggregator's route. An empty RoutePlan on
// an otherwise valid quote means no route exists between the two mints.
type RoutePlanStep struct {
	Percent  int      `json:"percent"`
	SwapInfo SwapInfo `json:"swapInfo"`
}

// SwapInfo identifies the AMM used by a route step.
type SwapInfo struct {
	AmmKey     string `json:"ammKey"`
	Label      string `json:"label"`
	InputMint  string `json:"inputMint"`
	OutputMint string `json:"outputMint"`
	InAmount   string `json:"inAmount"`
	OutAmount  string `json:"outAmount"`
	FeeAmount  string `json:"feeAmount"`
	FeeMint    string `json:"feeMint"`
}

// swapRequest is the body of the v6 swap endpoint. The quote is echoed back
// verbatim so the aggregator builds the transaction for exactly that route.
type swapRequest struct {
	UserPublicKey             string `json:"userPublicKey"`
	WrapAndUnwrapSol          bool   `json:"wrapAndUnwrapSol"`
	AsLegacyTransaction       bool   `json:"asLegacyTransaction"`
	UseTokenLedger            bool   `json:"useTokenLedger"`
	PrioritizationFeeLamports int    `json:"prioritizationFeeLamports"`
	QuoteResponse             *Quote `json:"quoteResponse"`
}

// swapResponse carries the base64-encoded unsigned transaction.
type swapResponse struct {
	SwapTransaction      string `json:"swapTransaction"`
	LastValidBlockHeight uint64 `json:"lastValidBlockHeight"`
}
