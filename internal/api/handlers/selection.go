package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/api/request"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/api/response"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/apperrors"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/model"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/selectiontoken"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/service"
)

// SelectionHandler exposes server-side selection sessions. Every mutation
// returns the updated session; the outcome is recomputed on each read of
// /harvest.
type SelectionHandler struct {
	selectionService *service.SelectionService
	harvestService   *service.HarvestService
	codec            *selectiontoken.Codec
}

// NewSelectionHandler creates a new SelectionHandler.
func NewSelectionHandler(
	selectionService *service.SelectionService,
	harvestService *service.HarvestService,
	codec *selectiontoken.Codec,
) *SelectionHandler {
	return &SelectionHandler{
		selectionService: selectionService,
		harvestService:   harvestService,
		codec:            codec,
	}
}

// TokenResponse carries a shareable selection token.
type TokenResponse struct {
	Token string `json:"token"`
}

func selectionParams(r *http.Request) (portfolioID, selectionID string) {
	return chi.URLParam(r, "uuid"), chi.URLParam(r, "selectionId")
}

// Create handles POST requests that start a selection session.
//
// Endpoint: POST /api/portfolio/{uuid}/selection
// Request Body: optional CreateSelectionRequest (selected ids or a token)
// Response: 201 Created with SelectionSession
// Error: 400 Bad Request if the body or token is invalid
// Error: 404 Not Found if the portfolio does not exist
func (h *SelectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	req, err := parseOptionalJSON[request.CreateSelectionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	selected := req.Selected
	if req.Token != "" {
		sel, err := resolveSelection(h.codec, portfolioID, req.Token, nil)
		if err != nil {
			respondServiceError(w, err, apperrors.ErrInvalidSelectionToken)
			return
		}
		selected = sel.IDs()
	}

	session, err := h.selectionService.Create(r.Context(), portfolioID, selected)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrievePortfolios)
		return
	}

	response.RespondJSON(w, http.StatusCreated, session)
}

// Get handles GET /api/portfolio/{uuid}/selection/{selectionId}.
func (h *SelectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	portfolioID, selectionID := selectionParams(r)
	h.respondSession(w)(h.selectionService.Get(portfolioID, selectionID))
}

// Delete handles DELETE /api/portfolio/{uuid}/selection/{selectionId}.
// Response: 204 No Content
func (h *SelectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	portfolioID, selectionID := selectionParams(r)

	if err := h.selectionService.Delete(portfolioID, selectionID); err != nil {
		respondServiceError(w, err, apperrors.ErrSelectionNotFound)
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// Toggle handles POST .../{selectionId}/toggle with a ToggleRequest body.
func (h *SelectionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	portfolioID, selectionID := selectionParams(r)

	req, err := parseJSON[request.ToggleRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	h.respondSession(w)(h.selectionService.Toggle(portfolioID, selectionID, req.ID))
}

// SelectAll handles POST .../{selectionId}/select-all.
func (h *SelectionHandler) SelectAll(w http.ResponseWriter, r *http.Request) {
	portfolioID, selectionID := selectionParams(r)
	h.respondSession(w)(h.selectionService.SelectAll(r.Context(), portfolioID, selectionID))
}

// ToggleAll handles POST .../{selectionId}/toggle-all: clears a full
// selection, otherwise selects every holding.
func (h *SelectionHandler) ToggleAll(w http.ResponseWriter, r *http.Request) {
	portfolioID, selectionID := selectionParams(r)
	h.respondSession(w)(h.selectionService.ToggleAll(r.Context(), portfolioID, selectionID))
}

// Clear handles POST .../{selectionId}/clear.
func (h *SelectionHandler) Clear(w http.ResponseWriter, r *http.Request) {
	portfolioID, selectionID := selectionParams(r)
	h.respondSession(w)(h.selectionService.Clear(portfolioID, selectionID))
}

// Harvest handles GET .../{selectionId}/harvest, simulating the session's
// current selection against the stored holdings and baseline.
func (h *SelectionHandler) Harvest(w http.ResponseWriter, r *http.Request) {
	portfolioID, selectionID := selectionParams(r)

	selection, err := h.selectionService.Selection(portfolioID, selectionID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrSelectionNotFound)
		return
	}

	outcome, err := h.harvestService.Evaluate(r.Context(), portfolioID, selection)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveHoldings)
		return
	}

	response.RespondJSON(w, http.StatusOK, HarvestResponse{Outcome: outcome, Selected: selection.IDs()})
}

// Token handles POST .../{selectionId}/token, sealing the current selection
// into a token that /harvest, /harvest/report and session creation accept.
func (h *SelectionHandler) Token(w http.ResponseWriter, r *http.Request) {
	portfolioID, selectionID := selectionParams(r)

	selection, err := h.selectionService.Selection(portfolioID, selectionID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrSelectionNotFound)
		return
	}

	token, err := h.codec.Encode(portfolioID, selection)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to issue selection token", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, TokenResponse{Token: token})
}

// respondSession writes the result of a session operation.
func (h *SelectionHandler) respondSession(w http.ResponseWriter) func(model.SelectionSession, error) {
	return func(session model.SelectionSession, err error) {
		if err != nil {
			respondServiceError(w, err, apperrors.ErrSelectionNotFound)
			return
		}
		response.RespondJSON(w, http.StatusOK, session)
	}
}
