package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/model"
)

// HoldingRepository provides data access methods for the holding table.
// Holdings are stored in the order they were imported.
type HoldingRepository struct {
	db *sql.DB
}

// NewHoldingRepository creates a new HoldingRepository with the provided database connection.
func NewHoldingRepository(db *sql.DB) *HoldingRepository {
	return &HoldingRepository{db: db}
}

// GetHoldings retrieves every holding of a portfolio in import order.
// Returns an empty slice when the portfolio has no holdings.
func (s *HoldingRepository) GetHoldings(ctx context.Context, portfolioID string) ([]model.Holding, error) {
	query := `
		SELECT asset_id, name, logo, total_quantity, average_cost, current_price,
		       stcg_gain, stcg_balance, ltcg_gain, ltcg_balance
		FROM holding
		WHERE portfolio_id = ?
		ORDER BY position
	`

	rows, err := s.db.QueryContext(ctx, query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query holding table: %w", err)
	}
	defer rows.Close()

	holdings := []model.Holding{}

	for rows.Next() {
		var h model.Holding

		err := rows.Scan(
			&h.ID,
			&h.Name,
			&h.Logo,
			&h.TotalQuantity,
			&h.AverageCost,
			&h.CurrentPrice,
			&h.STCG.Gain,
			&h.STCG.Balance,
			&h.LTCG.Gain,
			&h.LTCG.Balance,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holding table results: %w", err)
		}

		holdings = append(holdings, h)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holding table: %w", err)
	}

	return holdings, nil
}

// ReplaceHoldings swaps the stored holdings of a portfolio for the given set.
// The delete and inserts run in one transaction, so readers never see a partial set.
func (s *HoldingRepository) ReplaceHoldings(ctx context.Context, portfolioID string, holdings []model.Holding) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := replaceHoldingsTx(ctx, tx, portfolioID, holdings); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ReplaceHoldingsTx is ReplaceHoldings inside a caller-owned transaction.
func (s *HoldingRepository) ReplaceHoldingsTx(ctx context.Context, tx *sql.Tx, portfolioID string, holdings []model.Holding) error {
	return replaceHoldingsTx(ctx, tx, portfolioID, holdings)
}

func replaceHoldingsTx(ctx context.Context, tx *sql.Tx, portfolioID string, holdings []model.Holding) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM holding WHERE portfolio_id = ?`, portfolioID); err != nil {
		return fmt.Errorf("failed to delete holdings: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO holding (
			portfolio_id, asset_id, position, name, logo,
			total_quantity, average_cost, current_price,
			stcg_gain, stcg_balance, ltcg_gain, ltcg_balance
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare holding insert: %w", err)
	}
	defer stmt.Close()

	for i, h := range holdings {
		_, err := stmt.ExecContext(ctx,
			portfolioID,
			h.ID,
			i,
			h.Name,
			h.Logo,
			h.TotalQuantity.String(),
			h.AverageCost.String(),
			h.CurrentPrice.String(),
			h.STCG.Gain.String(),
			h.STCG.Balance.String(),
			h.LTCG.Gain.String(),
			h.LTCG.Balance.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert holding %s: %w", h.ID, err)
		}
	}
	return nil
}
