package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrPortfolioNotFound indicates that a portfolio with the given ID does not exist.
	ErrPortfolioNotFound = errors.New("portfolio not found")

	// ErrCapitalGainsNotFound indicates that no capital gains baseline has been loaded for a portfolio.
	// Callers treat this as the "not loaded yet" state rather than a failure.
	ErrCapitalGainsNotFound = errors.New("capital gains not found")

	// ErrSelectionNotFound indicates that a selection session does not exist or has expired.
	ErrSelectionNotFound = errors.New("selection not found")

	// ErrSourceNotConfigured indicates that a portfolio has no external data source to sync from.
	ErrSourceNotConfigured = errors.New("portfolio has no data source")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrEmptyID indicates that a required ID parameter is empty or missing.
	ErrEmptyID = errors.New("ID cannot be empty")

	// ErrSelectionPortfolioMismatch indicates that a selection belongs to a different portfolio.
	ErrSelectionPortfolioMismatch = errors.New("selection belongs to another portfolio")

	// ErrMalformedPayload indicates that a holdings or capital gains payload could not be decoded.
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrInvalidSelectionToken indicates that a selection token is malformed, tampered with or expired.
	ErrInvalidSelectionToken = errors.New("invalid or expired selection token")

	// Validation errors for required fields
	ErrInvalidPortfolioName = errors.New("portfolio name is required")
	ErrInvalidHoldingID     = errors.New("holding ID is required")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
// These errors indicate that an operation failed, but not due to missing entities or validation issues.
var (
	ErrFailedToRetrievePortfolios   = errors.New("failed to retrieve portfolios")
	ErrFailedToRetrieveHoldings     = errors.New("failed to retrieve holdings")
	ErrFailedToRetrieveCapitalGains = errors.New("failed to retrieve capital gains")
	ErrFailedToImportHoldings       = errors.New("failed to import holdings")
	ErrFailedToSyncSource           = errors.New("failed to sync from data source")
	ErrFailedToRenderReport         = errors.New("failed to render report")
)
