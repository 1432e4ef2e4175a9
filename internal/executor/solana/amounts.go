package solana

import (
	"fmt"
	"math/big"
)

// lamportsPerSol is the native unit scale of the chain.
const lamportsPerSol = 1_000_000_000

// baseUnits converts a user-facing decimal amount into an asset's smallest
// unit. The multiplication is exact rational arithmetic truncated toward
// zero; amounts that do not fit a uint64 are rejected rather than wrapped.
func baseUnits(amount float64, decimals int) (uint64, error) {
	r := new(big.Rat).SetFloat64(amount)
	if r == nil {
		return 0, fmt.Errorf("executor/solana: amount %v is not finite", amount)
	}

	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	r.Mul(r, new(big.Rat).SetInt(scale))

	units := new(big.Int).Quo(r.Num(), r.Denom())
	if units.Sign() < 0 || !units.IsUint64() {
		return 0, fmt.Errorf("executor/solana: amount %v overflows %d-decimal base units", amount, decimals)
	}
	return units.Uint64(), nil
}

// fallbackLamports prices the fallback transfer: amount units at the
// reference price, expressed in lamports and truncated toward zero.
func fallbackLamports(amount, referencePrice float64) (uint64, error) {
	ra := new(big.Rat).SetFloat64(amount)
	rp := new(big.Rat).SetFloat64(referencePrice)
	if ra == nil || rp == nil {
		return 0, fmt.Errorf("executor/solana: non-finite amount %v or price %v", amount, referencePrice)
	}

	ra.Mul(ra, rp)
	ra.Mul(ra, new(big.Rat).SetInt64(lamportsPerSol))

	lamports := new(big.Int).Quo(ra.Num(), ra.Denom())
	if lamports.Sign() < 0 || !lamports.IsUint64() {
		return 0, fmt.Errorf("executor/solana: fallback value %v x %v overflows lamports", amount, referencePrice)
	}
	return lamports.Uint64(), nil
}
