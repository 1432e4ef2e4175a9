package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/alanyoungcy/commodex/internal/domain"
	"github.com/alanyoungcy/commodex/internal/service"
)

// CommodityHandler serves the commodity catalog endpoints.
type CommodityHandler struct {
	catalog *service.CatalogService
	logger  *slog.Logger
}

// NewCommodityHandler creates a CommodityHandler.
func NewCommodityHandler(catalog *service.CatalogService, logger *slog.Logger) *CommodityHandler {
	return &CommodityHandler{catalog: catalog, logger: logger}
}

// ListCommodities returns catalog entries with live reference prices.
// GET /api/commodities?limit=&offset=&category=
func (h *CommodityHandler) ListCommodities(w http.ResponseWriter, r *http.Request) {
	opts := parseListOpts(r)

	entries, err := h.catalog.List(r.Context(), opts)
	if err != nil {
		logHandler(h.logger, "list_commodities").Error("list failed",
			slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to list commodities")
		return
	}

	total, err := h.catalog.Count(r.Context())
	if err != nil {
		total = int64(len(entries))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"commodities": entries,
		"count":       len(entries),
		"total":       total,
	})
}

// GetCommodity returns a single catalog entry.
// GET /api/commodities/{id}
func (h *CommodityHandler) GetCommodity(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")

	c, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "commodity not found")
			return
		}
		logHandler(h.logger, "get_commodity").Error("get failed",
			slog.String("commodity_id", id),
			slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to get commodity")
		return
	}

	writeJSON(w, http.StatusOK, c)
}
