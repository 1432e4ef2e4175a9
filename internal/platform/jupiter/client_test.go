package jupiter

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetQuoteBuildsRequestAndDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/v6/quote", r.URL.Path)

		q := r.URL.Query()
		assert.Equal(t, "MintIn", q.Get("inputMint"))
		assert.Equal(t, "MintOut", q.Get("outputMint"))
		assert.Equal(t, "5000000", q.Get("amount"))
		assert.Equal(t, "50", q.Get("slippageBps"))
		assert.Equal(t, "false", q.Get("onlyDirectRoutes"))

		json.NewEncoder(w).Encode(Quote{
			InputMint:  "MintIn",
			OutputMint: "MintOut",
			InAmount:   "5000000",
			OutAmount:  "123456",
			RoutePlan: []RoutePlanStep{
				{Percent: 100, SwapInfo: SwapInfo{Label: "Orca"}},
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	quote, err := c.GetQuote(context.Background(), "MintIn", "MintOut", 5_000_000, 50)
	require.NoError(t, err)
	assert.Equal(t, "123456", quote.OutAmount)
	require.Len(t, quote.RoutePlan, 1)
	assert.Equal(t, "Orca", quote.RoutePlan[0].SwapInfo.Label)
}

func TestGetQuoteEmptyRoutePlanIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Quote{InputMint: "MintIn", OutputMint: "MintOut"})
	}))
	defer srv.Close()

	quote, err := New(srv.URL).GetQuote(context.Background(), "MintIn", "MintOut", 1, 50)
	require.NoError(t, err)
	assert.Empty(t, quote.RoutePlan)
}

func TestGetQuoteNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"no liquidity"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := New(srv.URL).GetQuote(context.Background(), "MintIn", "MintOut", 1, 50)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jupiter")
}

func TestBuildSwapDecodesTransactionBytes(t *testing.T) {
	rawTx := []byte{0x01, 0x02, 0x03, 0x04}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v6/swap", r.URL.Path)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "User11111111111111111111111111111111111111", req["userPublicKey"])
		assert.Equal(t, true, req["wrapAndUnwrapSol"])
		assert.NotNil(t, req["quoteResponse"])

		json.NewEncoder(w).Encode(map[string]any{
			"swapTransaction":      base64.StdEncoding.EncodeToString(rawTx),
			"lastValidBlockHeight": 100,
		})
	}))
	defer srv.Close()

	quote := &Quote{InputMint: "MintIn", OutputMint: "MintOut", OutAmount: "5"}
	raw, err := New(srv.URL).BuildSwap(context.Background(), quote, "User11111111111111111111111111111111111111")
	require.NoError(t, err)
	assert.Equal(t, rawTx, raw)
}

func TestBuildSwapMissingTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"lastValidBlockHeight": 100})
	}))
	defer srv.Close()

	_, err := New(srv.URL).BuildSwap(context.Background(), &Quote{}, "user")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing transaction")
}

func TestBuildSwapBadBase64(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"swapTransaction": "not-base64!!!"})
	}))
	defer srv.Close()

	_, err := New(srv.URL).BuildSwap(context.Background(), &Quote{}, "user")
	require.Error(t, err)
}
