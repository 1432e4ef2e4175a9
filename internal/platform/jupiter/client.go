// Package jupiter is the REST client for the Jupiter v6 swap aggregator,
// which provides route discovery and ready-to-sign swap transactions for
// Solana token pairs.
package jupiter

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client talks to a Jupiter-compatible aggregator API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Jupiter API client.
//
// baseURL is the API root, e.g. "https://quote-api.jup.ag".
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetQuote asks for the best route swapping amount of inputMint into
// outputMint. amount is in the input mint's smallest units. The returned
// quote may carry an empty RoutePlan, which callers must treat as "no route".
func (c *Client) GetQuote(ctx context.Context, inputMint, outputMint string, amount uint64, slippageBps int) (*Quote, error) {
	params := url.Values{}
	params.Set("inputMint", inputMint)
	params.Set("outputMint", outputMint)
	params.Set("amount", strconv.FormatUint(amount, 10))
	params.Set("slippageBps", strconv.Itoa(slippageBps))
	params.Set("onlyDirectRoutes", "false")

	path := "/v6/quote?" + params.Encode()

	body, err := c.doGet(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("jupiter: get quote %s->%s: %w", inputMint, outputMint, err)
	}

	var quote Quote
	if err := json.Unmarshal(body, &quote); err != nil {
		return nil, fmt.Errorf("jupiter: decode quote: %w", err)
	}

	return &quote, nil
}

// BuildSwap asks the aggregator to assemble an unsigned swap transaction for
// the given quote and fee payer. The returned bytes are the raw serialized
// transaction, ready for decoding and signing.
func (c *Client) BuildSwap(ctx context.Context, quote *Quote, userPublicKey string) ([]byte, error) {
	reqBody := swapRequest{
		UserPublicKey:    userPublicKey,
		WrapAndUnwrapSol: true,
		QuoteResponse:    quote,
	}

	body, err := c.doPost(ctx, "/v6/swap", reqBody)
	if err != nil {
		return nil, fmt.Errorf("jupiter: build swap: %w", err)
	}

	var resp swapResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("jupiter: decode swap response: %w", err)
	}
	if resp.SwapTransaction == "" {
		return nil, fmt.Errorf("jupiter: swap response missing transaction")
	}

	raw, err := base64.StdEncoding.DecodeString(resp.SwapTransaction)
	if err != nil {
		return nil, fmt.Errorf("jupiter: decode swap transaction base64: %w", err)
	}

	return raw, nil
}

// --------------------------------------------------------------------------
// Internal helpers
// --------------------------------------------------------------------------

func (c *Client) doGet(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	return c.do(req)
}

func (c *Client) doPost(ctx context.Context, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if len(body) > 256 {
			body = body[:256]
		}
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}
