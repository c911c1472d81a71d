package model

import "time"

// Portfolio represents a portfolio from the database.
// SourceURL is the base URL of the external data source that holdings and the
// capital gains baseline are synced from; it is empty for import-only portfolios.
type Portfolio struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Currency    string    `json:"currency"`
	SourceURL   string    `json:"sourceUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PortfolioFilter for querying portfolios
type PortfolioFilter struct {
	WithSourceOnly bool
}
