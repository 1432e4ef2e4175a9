package evm

import (
	"fmt"
	"math/big"
)

// bpsDenominator is the basis-point scale shared by fee and slippage math.
const bpsDenominator = 10_000

// ToBaseUnits converts a user-facing decimal amount into the asset's smallest
// unit. The multiplication happens in exact rational arithmetic and the result
// truncates toward zero, so the submitted value never exceeds what the user
// asked for.
func ToBaseUnits(amount float64, decimals int) (*big.Int, error) {
	r := new(big.Rat).SetFloat64(amount)
	if r == nil {
		return nil, fmt.Errorf("evm: amount %v is not finite", amount)
	}

	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	r.Mul(r, new(big.Rat).SetInt(scale))

	// big.Int Quo truncates toward zero.
	return new(big.Int).Quo(r.Num(), r.Denom()), nil
}

// ConstantProductOut computes the pool output for amountIn against the given
// reserves under the x*y=k rule with the pool fee deducted from the input:
//
//	out = inWithFee * reserveOut / (reserveIn * 10000 + inWithFee)
//
// where inWithFee = amountIn * (10000 - feeBps). All arithmetic is integer
// and the division floors.
func ConstantProductOut(amountIn, reserveIn, reserveOut *big.Int, feeBps int) *big.Int {
	inWithFee := new(big.Int).Mul(amountIn, big.NewInt(int64(bpsDenominator-feeBps)))

	numerator := new(big.Int).Mul(inWithFee, reserveOut)
	denominator := new(big.Int).Mul(reserveIn, big.NewInt(bpsDenominator))
	denominator.Add(denominator, inWithFee)

	return numerator.Quo(numerator, denominator)
}

// ApplySlippage lowers an estimated output by the slippage tolerance,
// flooring the result.
func ApplySlippage(amountOut *big.Int, slippageBps int) *big.Int {
	out := new(big.Int).Mul(amountOut, big.NewInt(int64(bpsDenominator-slippageBps)))
	return out.Quo(out, big.NewInt(bpsDenominator))
}
