package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/apperrors"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/logging"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/model"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/repository"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/source"
)

// SyncService pulls holdings and capital gains from a portfolio's data
// source and stores them through the HarvestService.
type SyncService struct {
	portfolioRepo  *repository.PortfolioRepository
	harvestService *HarvestService
	fetcher        source.Fetcher
	logger         *logging.Logger
}

// NewSyncService creates a new SyncService.
func NewSyncService(
	portfolioRepo *repository.PortfolioRepository,
	harvestService *HarvestService,
	fetcher source.Fetcher,
	logger *logging.Logger,
) *SyncService {
	return &SyncService{
		portfolioRepo:  portfolioRepo,
		harvestService: harvestService,
		fetcher:        fetcher,
		logger:         logger.WithComponent(logging.ComponentSync),
	}
}

// SyncPortfolio fetches holdings and the baseline of one portfolio from its
// source URL, both requests in flight at once, then replaces the stored data.
// Returns apperrors.ErrSourceNotConfigured when the portfolio has no source.
func (s *SyncService) SyncPortfolio(ctx context.Context, portfolioID string) (model.SyncResult, error) {
	portfolio, err := s.portfolioRepo.GetPortfolioOnID(ctx, portfolioID)
	if err != nil {
		return model.SyncResult{}, err
	}
	if portfolio.SourceURL == "" {
		return model.SyncResult{}, apperrors.ErrSourceNotConfigured
	}

	var (
		holdings []model.Holding
		baseline *model.CapitalGainsSummary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		holdings, err = s.fetcher.FetchHoldings(gctx, portfolio.SourceURL)
		return err
	})
	g.Go(func() error {
		var err error
		baseline, err = s.fetcher.FetchCapitalGains(gctx, portfolio.SourceURL)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.SyncResult{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToSyncSource, err)
	}

	if err := s.harvestService.Import(ctx, portfolioID, holdings, baseline); err != nil {
		return model.SyncResult{}, err
	}

	s.logger.InfoContext(ctx, "portfolio synced",
		logging.FieldPortfolioID, portfolioID,
		logging.FieldSourceURL, portfolio.SourceURL,
		logging.FieldHoldings, len(holdings),
	)

	return model.SyncResult{
		PortfolioID: portfolioID,
		Holdings:    len(holdings),
		SyncedAt:    time.Now().UTC(),
	}, nil
}

// SyncAll syncs every portfolio that has a source URL, one after another.
// A failing portfolio does not stop the others; all failures are joined
// into the returned error.
func (s *SyncService) SyncAll(ctx context.Context) ([]model.SyncResult, error) {
	portfolios, err := s.portfolioRepo.GetPortfolios(ctx, model.PortfolioFilter{WithSourceOnly: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrievePortfolios, err)
	}

	results := make([]model.SyncResult, 0, len(portfolios))
	var errs []error
	for _, p := range portfolios {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		res, err := s.SyncPortfolio(ctx, p.ID)
		if err != nil {
			s.logger.Failure(ctx, "portfolio sync failed", err, logging.FieldPortfolioID, p.ID)
			errs = append(errs, fmt.Errorf("portfolio %s: %w", p.ID, err))
			continue
		}
		results = append(results, res)
	}

	return results, errors.Join(errs...)
}
