package logging

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldPortfolioID = "portfolio_id"
	FieldSelectionID = "selection_id"
	FieldHoldings    = "holdings"
	FieldSourceURL   = "source_url"
	FieldEvicted     = "evicted"
	FieldSchedule    = "schedule"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentStorage   = "storage"
	ComponentSync      = "sync"
	ComponentSelection = "selection"
	ComponentScheduler = "scheduler"
	ComponentCLI       = "cli"
)
