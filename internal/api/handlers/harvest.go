package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/api/request"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/api/response"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/apperrors"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/harvest"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/report"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/selectiontoken"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/service"
)

// Report formats accepted by the report endpoint.
const (
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// HarvestHandler runs stateless simulations: the caller sends the selection
// with every request and nothing is kept on the server.
type HarvestHandler struct {
	harvestService  *service.HarvestService
	codec           *selectiontoken.Codec
	defaultCurrency string
}

// NewHarvestHandler creates a new HarvestHandler. defaultCurrency is used in
// reports for portfolios that have no currency of their own.
func NewHarvestHandler(harvestService *service.HarvestService, codec *selectiontoken.Codec, defaultCurrency string) *HarvestHandler {
	return &HarvestHandler{
		harvestService:  harvestService,
		codec:           codec,
		defaultCurrency: defaultCurrency,
	}
}

// HarvestResponse is the outcome of a simulation together with the
// selection it was computed for.
type HarvestResponse struct {
	harvest.Outcome
	Selected []string `json:"selected"`
}

// Harvest handles POST requests that simulate harvesting a selection.
//
// Endpoint: POST /api/portfolio/{uuid}/harvest
// Request Body: HarvestRequest (selected ids, or a selection token)
// Response: 200 OK with HarvestResponse
// Error: 400 Bad Request if the body or token is invalid
// Error: 404 Not Found if the portfolio does not exist
func (h *HarvestHandler) Harvest(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	req, err := parseOptionalJSON[request.HarvestRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	selection, err := resolveSelection(h.codec, portfolioID, req.Token, req.Selected)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrInvalidSelectionToken)
		return
	}

	outcome, err := h.harvestService.Evaluate(r.Context(), portfolioID, selection)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveHoldings)
		return
	}

	response.RespondJSON(w, http.StatusOK, HarvestResponse{Outcome: outcome, Selected: selection.IDs()})
}

// Report handles GET requests for a printable report of a selection.
//
// Endpoint: GET /api/portfolio/{uuid}/harvest/report
// Query: selected (comma-separated ids) or token, format (markdown|html, default markdown)
// Response: 200 OK with text/markdown or text/html
// Error: 400 Bad Request for an unknown format or invalid token
// Error: 404 Not Found if the portfolio does not exist
func (h *HarvestHandler) Report(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	format := r.URL.Query().Get("format")
	if format == "" {
		format = FormatMarkdown
	}
	if format != FormatMarkdown && format != FormatHTML {
		response.RespondError(w, http.StatusBadRequest, "invalid format", "format must be markdown or html")
		return
	}

	selection, err := selectionFromQuery(h.codec, r, portfolioID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrInvalidSelectionToken)
		return
	}

	data, err := h.harvestService.Load(r.Context(), portfolioID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveHoldings)
		return
	}

	currency := data.Portfolio.Currency
	if currency == "" {
		currency = h.defaultCurrency
	}
	md := report.Markdown(report.Report{
		Title:     data.Portfolio.Name,
		Currency:  currency,
		Holdings:  data.Holdings,
		Selection: selection,
		Outcome:   harvest.Evaluate(data.Baseline, data.Holdings, selection),
	})

	if format == FormatMarkdown {
		response.RespondContent(w, http.StatusOK, "text/markdown; charset=utf-8", md)
		return
	}

	doc, err := report.HTMLDocument(data.Portfolio.Name, md)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRenderReport.Error(), err.Error())
		return
	}
	response.RespondContent(w, http.StatusOK, "text/html; charset=utf-8", doc)
}
