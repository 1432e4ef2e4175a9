package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	cacheredis "github.com/alanyoungcy/commodex/internal/cache/redis"
	"github.com/alanyoungcy/commodex/internal/domain"
	"github.com/alanyoungcy/commodex/internal/service"
)

// Trader executes a trade request and returns the normalized outcome.
type Trader interface {
	Buy(ctx context.Context, req domain.TradeRequest) domain.TradeResult
	Sell(ctx context.Context, req domain.TradeRequest) domain.TradeResult
}

// TradeHandler serves the trade execution endpoint.
type TradeHandler struct {
	trader  Trader
	catalog *service.CatalogService
	bus     domain.SignalBus
	logger  *slog.Logger
}

// NewTradeHandler creates a TradeHandler. The bus is optional; when nil,
// trade results are not broadcast.
func NewTradeHandler(trader Trader, catalog *service.CatalogService, bus domain.SignalBus, logger *slog.Logger) *TradeHandler {
	return &TradeHandler{trader: trader, catalog: catalog, bus: bus, logger: logger}
}

type placeTradeRequest struct {
	CommodityID    string                   `json:"commodityId"`
	Side           string                   `json:"side"`
	Chain          string                   `json:"chain"`
	Amount         float64                  `json:"amount"`
	ReferencePrice float64                  `json:"referencePrice,omitempty"`
	Addresses      domain.ContractAddresses `json:"contractAddresses,omitempty"`
}

// PlaceTrade executes a buy or sell on the requested chain. Execution
// outcomes, including failures, return 200 with the {success, message}
// contract; only malformed requests produce a non-200 status.
// POST /api/trades
func (h *TradeHandler) PlaceTrade(w http.ResponseWriter, r *http.Request) {
	log := logHandler(h.logger, "place_trade")

	var body placeTradeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.CommodityID == "" {
		writeError(w, http.StatusBadRequest, "commodityId is required")
		return
	}
	side := domain.Side(body.Side)
	if !side.Valid() {
		writeError(w, http.StatusBadRequest, "side must be \"buy\" or \"sell\"")
		return
	}

	req := domain.TradeRequest{
		CommodityID:    body.CommodityID,
		Side:           side,
		Chain:          domain.Chain(body.Chain),
		Amount:         body.Amount,
		ReferencePrice: body.ReferencePrice,
		Addresses:      body.Addresses,
	}

	// Enrich from the catalog when the entry exists: display name, live
	// reference price, and per-commodity addresses. A caller-supplied
	// address block still takes precedence.
	if c, err := h.catalog.Get(r.Context(), body.CommodityID); err == nil {
		req.CommodityName = c.Name
		if req.ReferencePrice == 0 {
			req.ReferencePrice = c.Price
		}
		if req.Addresses.IsZero() {
			req.Addresses = c.Addresses
		}
	} else if !errors.Is(err, domain.ErrNotFound) {
		log.Warn("catalog lookup failed",
			slog.String("commodity_id", body.CommodityID),
			slog.String("error", err.Error()))
	}

	var result domain.TradeResult
	switch side {
	case domain.SideSell:
		result = h.trader.Sell(r.Context(), req)
	default:
		result = h.trader.Buy(r.Context(), req)
	}

	h.broadcast(r.Context(), req, result)

	writeJSON(w, http.StatusOK, result)
}

func (h *TradeHandler) broadcast(ctx context.Context, req domain.TradeRequest, result domain.TradeResult) {
	if h.bus == nil {
		return
	}
	payload, err := json.Marshal(map[string]any{
		"event":        "trade_result",
		"commodity_id": req.CommodityID,
		"side":         req.Side,
		"chain":        req.Chain,
		"amount":       req.Amount,
		"success":      result.Success,
		"message":      result.Message,
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return
	}
	if err := h.bus.Publish(ctx, cacheredis.ChannelTrades, payload); err != nil {
		logHandler(h.logger, "place_trade").Warn("trade broadcast failed",
			slog.String("error", err.Error()))
	}
}
