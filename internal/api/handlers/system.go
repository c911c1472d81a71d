package handlers

import (
	"net/http"

	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/api/response"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/service"
)

// SessionCounter reports how many selection sessions are live.
type SessionCounter interface {
	Len() int
}

// SystemHandler handles system-related HTTP requests
type SystemHandler struct {
	systemService *service.SystemService
	sessions      SessionCounter
}

// NewSystemHandler creates a new SystemHandler. sessions may be nil when no
// selection store is running.
func NewSystemHandler(systemService *service.SystemService, sessions SessionCounter) *SystemHandler {
	return &SystemHandler{
		systemService: systemService,
		sessions:      sessions,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status           string `json:"status"`
	Database         string `json:"database"`
	ActiveSelections int    `json:"activeSelections"`
	Error            string `json:"error,omitempty"`
}

// Health reports database connectivity and the number of live selection sessions.
// Responds 503 when the database cannot be reached.
func (h *SystemHandler) Health(w http.ResponseWriter, _ *http.Request) {
	resp := HealthResponse{Status: "healthy", Database: "connected"}
	if h.sessions != nil {
		resp.ActiveSelections = h.sessions.Len()
	}

	if err := h.systemService.CheckHealth(); err != nil {
		resp.Status = "unhealthy"
		resp.Database = "disconnected"
		resp.Error = err.Error()
		response.RespondJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	response.RespondJSON(w, http.StatusOK, resp)
}

// Version handles GET requests to retrieve version information and feature availability.
// Returns the application version, database version, available features, and any pending migrations.
//
// Endpoint: GET /api/system/version
// Response: 200 OK with model.VersionInfo
// Error: 500 Internal Server Error if version check fails
func (h *SystemHandler) Version(w http.ResponseWriter, r *http.Request) {
	version, err := h.systemService.CheckVersion(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to get version information", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, version)
}
