package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/model"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/repository"
)

// PortfolioBuilder provides a fluent interface for creating test portfolios.
//
// Example usage:
//
//	// Simple creation with defaults
//	portfolio := testutil.NewPortfolio().Build(t, db)
//
//	// Customized portfolio
//	portfolio := testutil.NewPortfolio().
//	    WithName("Custom Portfolio").
//	    WithSourceURL(server.URL).
//	    Build(t, db)
type PortfolioBuilder struct {
	ID          string
	Name        string
	Description string
	Currency    string
	SourceURL   string
	CreatedAt   time.Time
}

// NewPortfolio creates a PortfolioBuilder with sensible defaults.
func NewPortfolio() *PortfolioBuilder {
	return &PortfolioBuilder{
		ID:          MakeID(),
		Name:        MakePortfolioName("Test Portfolio"),
		Description: "Test description",
		Currency:    "INR",
		CreatedAt:   time.Now().UTC(),
	}
}

// WithID sets a custom ID.
func (b *PortfolioBuilder) WithID(id string) *PortfolioBuilder {
	b.ID = id
	return b
}

// WithName sets a custom name.
func (b *PortfolioBuilder) WithName(name string) *PortfolioBuilder {
	b.Name = name
	return b
}

// WithCurrency sets a custom currency code.
func (b *PortfolioBuilder) WithCurrency(currency string) *PortfolioBuilder {
	b.Currency = currency
	return b
}

// WithSourceURL sets the URL holdings are synced from.
func (b *PortfolioBuilder) WithSourceURL(url string) *PortfolioBuilder {
	b.SourceURL = url
	return b
}

// WithCreatedAt sets a custom creation time.
func (b *PortfolioBuilder) WithCreatedAt(createdAt time.Time) *PortfolioBuilder {
	b.CreatedAt = createdAt
	return b
}

// Build creates the portfolio in the database and returns it.
func (b *PortfolioBuilder) Build(t *testing.T, db *sql.DB) model.Portfolio {
	t.Helper()

	p := model.Portfolio{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		Currency:    b.Currency,
		SourceURL:   b.SourceURL,
		CreatedAt:   b.CreatedAt,
	}

	if err := repository.NewPortfolioRepository(db).InsertPortfolio(context.Background(), p); err != nil {
		t.Fatalf("Failed to create test portfolio: %v", err)
	}

	return p
}

// CreatePortfolio creates a portfolio with the given name and default values.
//
// Example usage:
//
//	portfolio := testutil.CreatePortfolio(t, db, "My Portfolio")
func CreatePortfolio(t *testing.T, db *sql.DB, name string) model.Portfolio {
	t.Helper()
	return NewPortfolio().WithName(name).Build(t, db)
}

// HoldingBuilder provides a fluent interface for creating test holdings.
// Amounts are given as strings and parsed as exact decimals.
//
// Example usage:
//
//	h := testutil.NewHolding("BTC").
//	    WithSTCG("-1200", "0.5").
//	    WithLTCG("300", "1").
//	    Value()
type HoldingBuilder struct {
	holding model.Holding
}

// NewHolding creates a HoldingBuilder with zero gains and a quantity of one.
func NewHolding(id string) *HoldingBuilder {
	return &HoldingBuilder{holding: model.Holding{
		ID:            id,
		Name:          id + " Token",
		TotalQuantity: decimal.NewFromInt(1),
		AverageCost:   decimal.NewFromInt(100),
		CurrentPrice:  decimal.NewFromInt(100),
	}}
}

// WithName sets the display name.
func (b *HoldingBuilder) WithName(name string) *HoldingBuilder {
	b.holding.Name = name
	return b
}

// WithQuantity sets the total quantity held.
func (b *HoldingBuilder) WithQuantity(qty string) *HoldingBuilder {
	b.holding.TotalQuantity = decimal.RequireFromString(qty)
	return b
}

// WithPrice sets the current price.
func (b *HoldingBuilder) WithPrice(price string) *HoldingBuilder {
	b.holding.CurrentPrice = decimal.RequireFromString(price)
	return b
}

// WithSTCG sets the short-term gain and balance.
func (b *HoldingBuilder) WithSTCG(gain, balance string) *HoldingBuilder {
	b.holding.STCG = model.TaxLotGain{Gain: decimal.RequireFromString(gain), Balance: decimal.RequireFromString(balance)}
	return b
}

// WithLTCG sets the long-term gain and balance.
func (b *HoldingBuilder) WithLTCG(gain, balance string) *HoldingBuilder {
	b.holding.LTCG = model.TaxLotGain{Gain: decimal.RequireFromString(gain), Balance: decimal.RequireFromString(balance)}
	return b
}

// Value returns the holding without storing it.
func (b *HoldingBuilder) Value() model.Holding {
	return b.holding
}

// CreateHoldings stores holdings for a portfolio, replacing any existing ones.
func CreateHoldings(t *testing.T, db *sql.DB, portfolioID string, holdings ...model.Holding) []model.Holding {
	t.Helper()

	if err := repository.NewHoldingRepository(db).ReplaceHoldings(context.Background(), portfolioID, holdings); err != nil {
		t.Fatalf("Failed to create test holdings: %v", err)
	}
	return holdings
}

// MakeCapitalGains builds a summary from stcg profits, stcg losses, ltcg profits and ltcg losses.
func MakeCapitalGains(stcgProfits, stcgLosses, ltcgProfits, ltcgLosses string) model.CapitalGainsSummary {
	return model.CapitalGainsSummary{
		STCG: model.HorizonGains{
			Profits: decimal.RequireFromString(stcgProfits),
			Losses:  decimal.RequireFromString(stcgLosses),
		},
		LTCG: model.HorizonGains{
			Profits: decimal.RequireFromString(ltcgProfits),
			Losses:  decimal.RequireFromString(ltcgLosses),
		},
	}
}

// CreateCapitalGains stores the baseline summary of a portfolio.
func CreateCapitalGains(t *testing.T, db *sql.DB, portfolioID string, cg model.CapitalGainsSummary) model.CapitalGainsSummary {
	t.Helper()

	if err := repository.NewCapitalGainsRepository(db).UpsertCapitalGains(context.Background(), portfolioID, cg); err != nil {
		t.Fatalf("Failed to create test capital gains: %v", err)
	}
	return cg
}
