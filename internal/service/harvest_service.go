package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/apperrors"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/harvest"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/model"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/repository"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/validation"
)

// PortfolioData is everything a simulation needs for one portfolio.
// Baseline is nil when no capital gains have been loaded yet.
type PortfolioData struct {
	Portfolio model.Portfolio
	Holdings  []model.Holding
	Baseline  *model.CapitalGainsSummary
}

// HarvestService loads holdings and the capital gains baseline of a portfolio
// and runs harvest simulations over them. Nothing derived is stored: every
// call recomputes from the persisted inputs.
type HarvestService struct {
	db            *sql.DB
	portfolioRepo *repository.PortfolioRepository
	holdingRepo   *repository.HoldingRepository
	gainsRepo     *repository.CapitalGainsRepository
}

// NewHarvestService creates a new HarvestService.
func NewHarvestService(
	db *sql.DB,
	portfolioRepo *repository.PortfolioRepository,
	holdingRepo *repository.HoldingRepository,
	gainsRepo *repository.CapitalGainsRepository,
) *HarvestService {
	return &HarvestService{
		db:            db,
		portfolioRepo: portfolioRepo,
		holdingRepo:   holdingRepo,
		gainsRepo:     gainsRepo,
	}
}

// Load reads the portfolio, its holdings and its baseline concurrently.
// All three reads finish before Load returns.
func (s *HarvestService) Load(ctx context.Context, portfolioID string) (*PortfolioData, error) {
	var data PortfolioData
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := s.portfolioRepo.GetPortfolioOnID(gctx, portfolioID)
		data.Portfolio = p
		return err
	})
	g.Go(func() error {
		holdings, err := s.holdingRepo.GetHoldings(gctx, portfolioID)
		if err != nil {
			return fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveHoldings, err)
		}
		data.Holdings = holdings
		return nil
	})
	g.Go(func() error {
		baseline, err := s.loadBaseline(gctx, portfolioID)
		data.Baseline = baseline
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &data, nil
}

// Holdings returns the holdings of a portfolio in import order.
func (s *HarvestService) Holdings(ctx context.Context, portfolioID string) ([]model.Holding, error) {
	if _, err := s.portfolioRepo.GetPortfolioOnID(ctx, portfolioID); err != nil {
		return nil, err
	}
	holdings, err := s.holdingRepo.GetHoldings(ctx, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveHoldings, err)
	}
	return holdings, nil
}

// CapitalGains returns the baseline of a portfolio, or nil when none is loaded.
func (s *HarvestService) CapitalGains(ctx context.Context, portfolioID string) (*model.CapitalGainsSummary, error) {
	if _, err := s.portfolioRepo.GetPortfolioOnID(ctx, portfolioID); err != nil {
		return nil, err
	}
	return s.loadBaseline(ctx, portfolioID)
}

// Evaluate simulates harvesting the selection against the stored data of a portfolio.
func (s *HarvestService) Evaluate(ctx context.Context, portfolioID string, selection *harvest.Selection) (harvest.Outcome, error) {
	data, err := s.Load(ctx, portfolioID)
	if err != nil {
		return harvest.Outcome{}, err
	}
	return harvest.Evaluate(data.Baseline, data.Holdings, selection), nil
}

// Import validates and stores holdings and, when given, a new baseline.
// Holdings are replaced wholesale; both writes share one transaction.
func (s *HarvestService) Import(ctx context.Context, portfolioID string, holdings []model.Holding, baseline *model.CapitalGainsSummary) error {
	if err := validation.ValidateHoldings(holdings); err != nil {
		return err
	}
	if baseline != nil {
		if err := validation.ValidateCapitalGains(*baseline); err != nil {
			return err
		}
	}

	// Checked outside the transaction: the test database has a single connection.
	if _, err := s.portfolioRepo.GetPortfolioOnID(ctx, portfolioID); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrFailedToImportHoldings, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := s.holdingRepo.ReplaceHoldingsTx(ctx, tx, portfolioID, holdings); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrFailedToImportHoldings, err)
	}
	if baseline != nil {
		if err := s.gainsRepo.UpsertCapitalGainsTx(ctx, tx, portfolioID, *baseline); err != nil {
			return fmt.Errorf("%w: %w", apperrors.ErrFailedToImportHoldings, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrFailedToImportHoldings, err)
	}
	return nil
}

func (s *HarvestService) loadBaseline(ctx context.Context, portfolioID string) (*model.CapitalGainsSummary, error) {
	baseline, err := s.gainsRepo.GetCapitalGains(ctx, portfolioID)
	if errors.Is(err, apperrors.ErrCapitalGainsNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveCapitalGains, err)
	}
	return baseline, nil
}
