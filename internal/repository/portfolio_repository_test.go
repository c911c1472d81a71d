package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/apperrors"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/model"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/repository"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/testutil"
)

func TestPortfolioRepository_GetPortfolios(t *testing.T) {
	ctx := context.Background()

	t.Run("returns empty slice when no portfolios exist", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewPortfolioRepository(db)

		portfolios, err := repo.GetPortfolios(ctx, model.PortfolioFilter{})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if portfolios == nil || len(portfolios) != 0 {
			t.Errorf("Expected empty non-nil slice, got %v", portfolios)
		}
	})

	t.Run("orders by creation time and filters on source", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewPortfolioRepository(db)
		base := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)

		second := testutil.NewPortfolio().WithName("Second").WithCreatedAt(base.Add(time.Hour)).
			WithSourceURL("https://source.example/api").Build(t, db)
		first := testutil.NewPortfolio().WithName("First").WithCreatedAt(base).Build(t, db)

		all, err := repo.GetPortfolios(ctx, model.PortfolioFilter{})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(all) != 2 || all[0].ID != first.ID || all[1].ID != second.ID {
			t.Fatalf("Expected [First Second], got %+v", all)
		}
		if !all[0].CreatedAt.Equal(base) {
			t.Errorf("Expected created_at %s, got %s", base, all[0].CreatedAt)
		}

		sourced, err := repo.GetPortfolios(ctx, model.PortfolioFilter{WithSourceOnly: true})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(sourced) != 1 || sourced[0].SourceURL != "https://source.example/api" {
			t.Errorf("Expected only the sourced portfolio, got %+v", sourced)
		}
	})

	t.Run("returns nothing after the database is cleaned", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewPortfolioRepository(db)
		p := testutil.CreatePortfolio(t, db, "Cleaned")
		testutil.CreateHoldings(t, db, p.ID, testutil.NewHolding("BTC").Value())

		testutil.CleanDatabase(t, db)

		if n := testutil.CountRows(t, db, "holding"); n != 0 {
			t.Errorf("Expected no holdings, got %d", n)
		}
		portfolios, err := repo.GetPortfolios(ctx, model.PortfolioFilter{})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(portfolios) != 0 {
			t.Errorf("Expected no portfolios, got %d", len(portfolios))
		}
	})
}

func TestPortfolioRepository_GetPortfolioOnID(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := repository.NewPortfolioRepository(db)

	t.Run("returns stored portfolio", func(t *testing.T) {
		p := testutil.NewPortfolio().WithCurrency("USD").Build(t, db)

		got, err := repo.GetPortfolioOnID(ctx, p.ID)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if got.Name != p.Name || got.Currency != "USD" {
			t.Errorf("Expected %+v, got %+v", p, got)
		}
	})

	t.Run("returns ErrPortfolioNotFound for unknown id", func(t *testing.T) {
		_, err := repo.GetPortfolioOnID(ctx, testutil.MakeID())
		if !errors.Is(err, apperrors.ErrPortfolioNotFound) {
			t.Errorf("Expected ErrPortfolioNotFound, got %v", err)
		}
	})

	t.Run("wraps database errors", func(t *testing.T) {
		closed := testutil.SetupTestDB(t)
		closed.Close()

		_, err := repository.NewPortfolioRepository(closed).GetPortfolioOnID(ctx, testutil.MakeID())
		if err == nil || errors.Is(err, apperrors.ErrPortfolioNotFound) {
			t.Errorf("Expected a database error, got %v", err)
		}
	})
}
