package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/apperrors"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/model"
)

// CapitalGainsRepository provides data access methods for the capital_gains table.
// Each portfolio has at most one baseline summary.
type CapitalGainsRepository struct {
	db *sql.DB
}

// NewCapitalGainsRepository creates a new CapitalGainsRepository with the provided database connection.
func NewCapitalGainsRepository(db *sql.DB) *CapitalGainsRepository {
	return &CapitalGainsRepository{db: db}
}

// GetCapitalGains retrieves the baseline summary of a portfolio.
// Returns apperrors.ErrCapitalGainsNotFound when none has been stored yet.
func (s *CapitalGainsRepository) GetCapitalGains(ctx context.Context, portfolioID string) (*model.CapitalGainsSummary, error) {
	query := `
		SELECT stcg_profits, stcg_losses, ltcg_profits, ltcg_losses
		FROM capital_gains
		WHERE portfolio_id = ?
	`

	var cg model.CapitalGainsSummary
	err := s.db.QueryRowContext(ctx, query, portfolioID).Scan(
		&cg.STCG.Profits,
		&cg.STCG.Losses,
		&cg.LTCG.Profits,
		&cg.LTCG.Losses,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrCapitalGainsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query capital_gains: %w", err)
	}

	return &cg, nil
}

// UpsertCapitalGains stores the baseline summary of a portfolio, replacing any previous one.
func (s *CapitalGainsRepository) UpsertCapitalGains(ctx context.Context, portfolioID string, cg model.CapitalGainsSummary) error {
	return upsertCapitalGains(ctx, s.db, portfolioID, cg)
}

// UpsertCapitalGainsTx is UpsertCapitalGains inside a caller-owned transaction.
func (s *CapitalGainsRepository) UpsertCapitalGainsTx(ctx context.Context, tx *sql.Tx, portfolioID string, cg model.CapitalGainsSummary) error {
	return upsertCapitalGains(ctx, tx, portfolioID, cg)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertCapitalGains(ctx context.Context, db execer, portfolioID string, cg model.CapitalGainsSummary) error {
	query := `
		INSERT INTO capital_gains (portfolio_id, stcg_profits, stcg_losses, ltcg_profits, ltcg_losses, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (portfolio_id) DO UPDATE SET
			stcg_profits = excluded.stcg_profits,
			stcg_losses = excluded.stcg_losses,
			ltcg_profits = excluded.ltcg_profits,
			ltcg_losses = excluded.ltcg_losses,
			updated_at = excluded.updated_at
	`

	_, err := db.ExecContext(ctx, query,
		portfolioID,
		cg.STCG.Profits.String(),
		cg.STCG.Losses.String(),
		cg.LTCG.Profits.String(),
		cg.LTCG.Losses.String(),
		FormatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert capital_gains: %w", err)
	}
	return nil
}
