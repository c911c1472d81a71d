package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/api/request"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/api/response"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/apperrors"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/harvest"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/selectiontoken"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/validation"
)

// maxBodyBytes bounds request bodies; an import of a few thousand holdings fits comfortably.
const maxBodyBytes = 4 << 20

// parseJSON decodes the request body into a T.
func parseJSON[T any](r *http.Request) (T, error) {
	var v T
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&v); err != nil {
		return v, err
	}
	return v, nil
}

// parseOptionalJSON is parseJSON for endpoints whose body may be omitted.
func parseOptionalJSON[T any](r *http.Request) (T, error) {
	v, err := parseJSON[T](r)
	if errors.Is(err, io.EOF) {
		return v, nil
	}
	return v, err
}

// respondServiceError maps an error returned by a service to a status code.
// Errors not recognised here are reported as 500 under the fallback message.
func respondServiceError(w http.ResponseWriter, err error, fallback error) {
	var verr *validation.Error

	switch {
	case errors.As(err, &verr):
		response.RespondError(w, http.StatusBadRequest, "validation failed", verr.Fields)
	case errors.Is(err, apperrors.ErrPortfolioNotFound):
		response.RespondError(w, http.StatusNotFound, apperrors.ErrPortfolioNotFound.Error(), err.Error())
	case errors.Is(err, apperrors.ErrSelectionNotFound),
		errors.Is(err, apperrors.ErrSelectionPortfolioMismatch):
		response.RespondError(w, http.StatusNotFound, apperrors.ErrSelectionNotFound.Error(), err.Error())
	case errors.Is(err, apperrors.ErrSourceNotConfigured):
		response.RespondError(w, http.StatusConflict, apperrors.ErrSourceNotConfigured.Error(), err.Error())
	case errors.Is(err, apperrors.ErrFailedToSyncSource):
		response.RespondError(w, http.StatusBadGateway, apperrors.ErrFailedToSyncSource.Error(), err.Error())
	case errors.Is(err, apperrors.ErrMalformedPayload),
		errors.Is(err, apperrors.ErrInvalidHoldingID),
		errors.Is(err, apperrors.ErrInvalidSelectionToken):
		response.RespondError(w, http.StatusBadRequest, "invalid request", err.Error())
	default:
		response.RespondError(w, http.StatusInternalServerError, fallback.Error(), err.Error())
	}
}

// resolveSelection builds the selection of a request: the token when one is
// given, else the listed ids. A token issued for another portfolio is rejected.
func resolveSelection(codec *selectiontoken.Codec, portfolioID, token string, ids []string) (*harvest.Selection, error) {
	if token == "" {
		return harvest.NewSelection(ids...), nil
	}
	tokenPortfolio, sel, err := codec.Decode(token)
	if err != nil {
		return nil, err
	}
	if tokenPortfolio != portfolioID {
		return nil, fmt.Errorf("%w: issued for another portfolio", apperrors.ErrInvalidSelectionToken)
	}
	return sel, nil
}

// selectionFromQuery reads the "token" or comma-separated "selected" query parameters.
func selectionFromQuery(codec *selectiontoken.Codec, r *http.Request, portfolioID string) (*harvest.Selection, error) {
	q := r.URL.Query()
	return resolveSelection(codec, portfolioID, strings.TrimSpace(q.Get("token")), request.ParseIDList(q.Get("selected")))
}
