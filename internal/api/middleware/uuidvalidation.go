// Package middleware provides HTTP middleware for request validation and processing.
package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/api/response"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/validation"
)

// ValidateUUIDMiddleware validates the "uuid" URL parameter, the portfolio id
// of every /api/portfolio/{uuid} route.
func ValidateUUIDMiddleware(next http.Handler) http.Handler {
	return ValidateUUIDParam("uuid")(next)
}

// ValidateUUIDParam returns a middleware that checks the named URL parameter
// is present and is a valid UUID. Returns 400 Bad Request otherwise.
//
// Example usage in router:
//
//	r.Route("/selection/{selectionId}", func(r chi.Router) {
//	    r.Use(middleware.ValidateUUIDParam("selectionId"))
//	    r.Get("/", handler.Get)
//	})
func ValidateUUIDParam(name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, name)

			if id == "" {
				response.RespondError(w, http.StatusBadRequest, "valid UUID is required", name)
				return
			}

			if err := validation.ValidateUUID(id); err != nil {
				response.RespondError(w, http.StatusBadRequest, "invalid UUID format", err.Error())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
