package middleware

import (
	"net/http"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/logging"
)

// Logger returns a middleware that writes one structured line per request.
// Server errors are logged at error level, client errors at warn.
func Logger(logger *logging.Logger) func(http.Handler) http.Handler {
	log := logger.WithComponent(logging.ComponentHTTP)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Create a response writer wrapper to capture status code
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			// Strip CR/LF from user-supplied values before logging.
			sanitize := strings.NewReplacer("\n", "", "\r", "").Replace
			attrs := []any{
				logging.FieldRequestID, chimiddleware.GetReqID(r.Context()),
				logging.FieldClientIP, r.RemoteAddr,
				logging.FieldMethod, sanitize(r.Method),
				logging.FieldPath, sanitize(r.URL.Path),
				logging.FieldStatusCode, wrapped.statusCode,
				logging.FieldDuration, time.Since(start).Milliseconds(),
			}

			switch {
			case wrapped.statusCode >= http.StatusInternalServerError:
				log.ErrorContext(r.Context(), "request failed", attrs...)
			case wrapped.statusCode >= http.StatusBadRequest:
				log.WarnContext(r.Context(), "request rejected", attrs...)
			default:
				log.InfoContext(r.Context(), "request handled", attrs...)
			}
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}
