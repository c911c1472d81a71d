package handlers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/api/request"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/api/response"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/apperrors"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/harvest"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/model"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/service"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/source"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/validation"
)

// HoldingHandler serves the holdings and capital gains baseline of a portfolio
// and the endpoints that replace them.
type HoldingHandler struct {
	harvestService *service.HarvestService
	syncService    *service.SyncService
}

// NewHoldingHandler creates a new HoldingHandler.
func NewHoldingHandler(harvestService *service.HarvestService, syncService *service.SyncService) *HoldingHandler {
	return &HoldingHandler{
		harvestService: harvestService,
		syncService:    syncService,
	}
}

// HoldingRow is one line of the holdings table.
type HoldingRow struct {
	model.Holding
	TotalGain    decimal.Decimal `json:"totalGain"`
	Selected     bool            `json:"selected"`
	AmountToSell decimal.Decimal `json:"amountToSell"`
}

// HoldingsResponse is a sorted page of holdings. Total counts every holding
// of the portfolio, not just the ones returned.
type HoldingsResponse struct {
	Holdings []HoldingRow `json:"holdings"`
	Total    int          `json:"total"`
	HasMore  bool         `json:"hasMore"`
}

// CapitalGainsResponse is the stored baseline. CapitalGains is null until one is loaded.
type CapitalGainsResponse struct {
	CapitalGains *model.CapitalGainsSummary `json:"capitalGains"`
	Realised     decimal.Decimal            `json:"realised"`
}

// Holdings handles GET requests for the holdings table of a portfolio.
//
// Endpoint: GET /api/portfolio/{uuid}/holdings
// Query: sort (asset|quantity|price|stcg|ltcg), direction (asc|desc), view=all,
// selected (comma-separated holding ids used for amountToSell)
// Response: 200 OK with HoldingsResponse
// Error: 400 Bad Request for an unknown sort key or direction
// Error: 404 Not Found if the portfolio does not exist
func (h *HoldingHandler) Holdings(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")
	q := r.URL.Query()

	key, err := harvest.ParseSortKey(q.Get("sort"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid sort", err.Error())
		return
	}
	direction, err := harvest.ParseSortDirection(q.Get("direction"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid sort", err.Error())
		return
	}
	selection := harvest.NewSelection(request.ParseIDList(q.Get("selected"))...)

	holdings, err := h.harvestService.Holdings(r.Context(), portfolioID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveHoldings)
		return
	}

	page := harvest.Page(harvest.SortHoldings(holdings, key, direction), q.Get("view") == "all")
	rows := make([]HoldingRow, len(page))
	for i, holding := range page {
		rows[i] = HoldingRow{
			Holding:      holding,
			TotalGain:    holding.TotalGain(),
			Selected:     selection.Contains(holding.ID),
			AmountToSell: harvest.AmountToSell(holding, selection),
		}
	}

	response.RespondJSON(w, http.StatusOK, HoldingsResponse{
		Holdings: rows,
		Total:    len(holdings),
		HasMore:  len(rows) < len(holdings),
	})
}

// ImportHoldings handles PUT requests that replace the holdings of a portfolio
// and, when capitalGains is present, its baseline. Both payloads use the data
// source's wire format.
//
// Endpoint: PUT /api/portfolio/{uuid}/holdings
// Request Body: ImportRequest (holdings, optional capitalGains)
// Response: 200 OK with SyncResult
// Error: 400 Bad Request if the payload is malformed or fails validation
// Error: 404 Not Found if the portfolio does not exist
func (h *HoldingHandler) ImportHoldings(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.ImportRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if len(req.Holdings) == 0 {
		respondServiceError(w, &validation.Error{Fields: map[string]string{"holdings": "holdings is required"}}, apperrors.ErrFailedToImportHoldings)
		return
	}

	holdings, err := source.DecodeHoldings(req.Holdings, "$")
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToImportHoldings)
		return
	}

	var baseline *model.CapitalGainsSummary
	if len(req.CapitalGains) > 0 && !bytes.Equal(bytes.TrimSpace(req.CapitalGains), []byte("null")) {
		baseline, err = source.DecodeCapitalGains(req.CapitalGains, "$")
		if err != nil {
			respondServiceError(w, err, apperrors.ErrFailedToImportHoldings)
			return
		}
	}

	if err := h.harvestService.Import(r.Context(), portfolioID, holdings, baseline); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToImportHoldings)
		return
	}

	response.RespondJSON(w, http.StatusOK, model.SyncResult{
		PortfolioID: portfolioID,
		Holdings:    len(holdings),
		SyncedAt:    time.Now().UTC(),
	})
}

// CapitalGains handles GET requests for the stored baseline and its realised gains.
//
// Endpoint: GET /api/portfolio/{uuid}/capital-gains
// Response: 200 OK with CapitalGainsResponse
// Error: 404 Not Found if the portfolio does not exist
func (h *HoldingHandler) CapitalGains(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	baseline, err := h.harvestService.CapitalGains(r.Context(), portfolioID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveCapitalGains)
		return
	}

	response.RespondJSON(w, http.StatusOK, CapitalGainsResponse{
		CapitalGains: baseline,
		Realised:     harvest.RealisedGains(baseline),
	})
}

// Sync handles POST requests that pull holdings and the baseline from the
// portfolio's data source right away.
//
// Endpoint: POST /api/portfolio/{uuid}/sync
// Response: 200 OK with SyncResult
// Error: 404 Not Found if the portfolio does not exist
// Error: 409 Conflict if the portfolio has no source URL
// Error: 502 Bad Gateway if the source cannot be reached or returns bad data
func (h *HoldingHandler) Sync(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	result, err := h.syncService.SyncPortfolio(r.Context(), portfolioID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToSyncSource)
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}
