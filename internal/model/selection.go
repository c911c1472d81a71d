package model

import "time"

// SelectionSession is the client-facing view of a harvest selection kept by the server.
// Selected is sorted.
type SelectionSession struct {
	ID          string    `json:"id"`
	PortfolioID string    `json:"portfolioId"`
	Selected    []string  `json:"selected"`
	CreatedAt   time.Time `json:"createdAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// SyncResult reports what a sync from a portfolio's data source stored.
type SyncResult struct {
	PortfolioID string    `json:"portfolioId"`
	Holdings    int       `json:"holdings"`
	SyncedAt    time.Time `json:"syncedAt"`
}
