package evm

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToBaseUnits(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		decimals int
		want     string
	}{
		{"whole usdc", 100, 6, "100000000"},
		{"fractional usdc", 1.5, 6, "1500000"},
		{"whole token", 2, 18, "2000000000000000000"},
		{"fractional token", 0.25, 18, "250000000000000000"},
		{"truncates below smallest unit", 0.0000001, 6, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToBaseUnits(tt.amount, tt.decimals)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestConstantProductOutExactIntegerResult(t *testing.T) {
	// reserveIn=1000, reserveOut=2000, fee 0.3%, amountIn=100:
	// floor(100*997*2000 / (1000*1000 + 100*997)) = floor(181.32...) = 181
	out := ConstantProductOut(big.NewInt(100), big.NewInt(1000), big.NewInt(2000), 30)
	assert.Equal(t, 0, out.Cmp(big.NewInt(181)), "got %s", out)
}

func TestConstantProductOutFloors(t *testing.T) {
	// Tiny input against deep reserves floors to zero rather than rounding up.
	out := ConstantProductOut(big.NewInt(1), big.NewInt(1_000_000), big.NewInt(1), 30)
	assert.Equal(t, 0, out.Sign())
}

func TestApplySlippage(t *testing.T) {
	got := ApplySlippage(big.NewInt(181), 50)
	// 181 * 9950 / 10000 = 180.095, floored.
	assert.Equal(t, "180", got.String())

	got = ApplySlippage(big.NewInt(10_000), 50)
	assert.Equal(t, "9950", got.String())
}
