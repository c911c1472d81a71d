package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/api/request"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/model"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/repository"
)

// PortfolioService handles portfolio-related business logic operations.
type PortfolioService struct {
	portfolioRepo   *repository.PortfolioRepository
	defaultCurrency string
}

// NewPortfolioService creates a new PortfolioService.
// defaultCurrency is used for portfolios created without one.
func NewPortfolioService(portfolioRepo *repository.PortfolioRepository, defaultCurrency string) *PortfolioService {
	return &PortfolioService{
		portfolioRepo:   portfolioRepo,
		defaultCurrency: defaultCurrency,
	}
}

// GetAllPortfolios retrieves all portfolios from the database with no filters applied.
func (s *PortfolioService) GetAllPortfolios(ctx context.Context) ([]model.Portfolio, error) {
	return s.portfolioRepo.GetPortfolios(ctx, model.PortfolioFilter{})
}

// GetPortfolio retrieves a single portfolio.
// Returns apperrors.ErrPortfolioNotFound if it does not exist.
func (s *PortfolioService) GetPortfolio(ctx context.Context, portfolioID string) (model.Portfolio, error) {
	return s.portfolioRepo.GetPortfolioOnID(ctx, portfolioID)
}

// CreatePortfolio creates a new portfolio from a validated request.
func (s *PortfolioService) CreatePortfolio(ctx context.Context, req request.CreatePortfolioRequest) (*model.Portfolio, error) {
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = s.defaultCurrency
	}

	portfolio := &model.Portfolio{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Currency:    currency,
		SourceURL:   req.SourceURL,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.portfolioRepo.InsertPortfolio(ctx, *portfolio); err != nil {
		return nil, fmt.Errorf("failed to create portfolio: %w", err)
	}

	return portfolio, nil
}
