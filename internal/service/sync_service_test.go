package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/apperrors"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/testutil"
)

// TestSyncService_SyncPortfolio covers pulling data from a portfolio's source.
//
// WHY: A failed fetch must leave the previously stored data alone, and the
// two concurrent fetches must both complete before anything is written.
func TestSyncService_SyncPortfolio(t *testing.T) {
	ctx := context.Background()

	t.Run("stores fetched holdings and baseline", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		mock := testutil.NewMockSourceClient()
		svc := testutil.NewTestSyncService(t, db, mock)
		p := testutil.NewPortfolio().WithSourceURL("https://source.example").Build(t, db)

		res, err := svc.SyncPortfolio(ctx, p.ID)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if res.Holdings != 3 {
			t.Errorf("Expected 3 holdings, got %d", res.Holdings)
		}
		if got := mock.FetchCount.Load(); got != 2 {
			t.Errorf("Expected 2 fetches, got %d", got)
		}
		testutil.AssertRowCount(t, db, "holding", 3)
		testutil.AssertRowCount(t, db, "capital_gains", 1)
	})

	t.Run("works against the real client", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		mock := testutil.NewMockSourceClient()
		srv := testutil.NewSourceServer(t, mock.MockHoldings, *mock.MockCapitalGains)
		svc := testutil.NewTestSyncService(t, db, testutil.NewTestSourceClient())
		p := testutil.NewPortfolio().WithSourceURL(srv.URL).Build(t, db)

		if _, err := svc.SyncPortfolio(ctx, p.ID); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		baseline, err := testutil.NewTestHarvestService(t, db).CapitalGains(ctx, p.ID)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if !baseline.STCG.Profits.Equal(mock.MockCapitalGains.STCG.Profits) {
			t.Errorf("Expected stcg profits %s, got %s", mock.MockCapitalGains.STCG.Profits, baseline.STCG.Profits)
		}
	})

	t.Run("portfolio without source", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSyncService(t, db, testutil.NewMockSourceClient())
		p := testutil.NewPortfolio().Build(t, db)

		if _, err := svc.SyncPortfolio(ctx, p.ID); !errors.Is(err, apperrors.ErrSourceNotConfigured) {
			t.Errorf("Expected ErrSourceNotConfigured, got %v", err)
		}
	})

	t.Run("fetch failure keeps stored data", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		mock := testutil.NewMockSourceClient().WithError(errors.New("connection refused"))
		svc := testutil.NewTestSyncService(t, db, mock)
		p := testutil.NewPortfolio().WithSourceURL("https://source.example").Build(t, db)
		testutil.CreateHoldings(t, db, p.ID, testutil.NewHolding("OLD").Value())

		_, err := svc.SyncPortfolio(ctx, p.ID)
		if !errors.Is(err, apperrors.ErrFailedToSyncSource) {
			t.Fatalf("Expected ErrFailedToSyncSource, got %v", err)
		}
		testutil.AssertRowCount(t, db, "holding", 1)
	})
}

func TestSyncService_SyncAll(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	mock := testutil.NewMockSourceClient()
	svc := testutil.NewTestSyncService(t, db, mock)

	testutil.NewPortfolio().WithSourceURL("https://a.example").Build(t, db)
	testutil.NewPortfolio().WithSourceURL("https://b.example").Build(t, db)
	testutil.NewPortfolio().Build(t, db)

	results, err := svc.SyncAll(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(results) != 2 {
		t.Errorf("Expected 2 synced portfolios, got %d", len(results))
	}
	testutil.AssertRowCount(t, db, "holding", 6)

	mock.WithError(errors.New("down"))
	results, err = svc.SyncAll(ctx)
	if err == nil {
		t.Error("Expected joined error when every sync fails")
	}
	if len(results) != 0 {
		t.Errorf("Expected no results, got %d", len(results))
	}
}
