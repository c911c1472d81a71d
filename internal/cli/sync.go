package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/model"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/repository"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/service"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/source"
)

// syncCmd holds the flags for the 'sync' subcommand.
type syncCmd struct {
	env Env

	dbPath      string
	portfolioID string

	// fetcher replaces the HTTP source client in tests.
	fetcher source.Fetcher
}

func (*syncCmd) Name() string     { return "sync" }
func (*syncCmd) Synopsis() string { return "pull portfolios from their data source" }
func (*syncCmd) Usage() string {
	return `harvest sync [-portfolio <id>] [-db <path>]

  Fetches holdings and capital gains for one portfolio, or for every
  portfolio with a source URL, and stores them.
`
}

func (c *syncCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dbPath, "db", c.env.Config.Database.Path, "Path to the SQLite database")
	f.StringVar(&c.portfolioID, "portfolio", "", "Sync only this portfolio")
}

func (c *syncCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	db, err := openDatabase(ctx, c.env, c.dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		return subcommands.ExitFailure
	}
	defer db.Close()

	fetcher := c.fetcher
	if fetcher == nil {
		fetcher = source.NewClient(source.Options{
			Timeout:      c.env.Config.Source.Timeout,
			HoldingsPath: c.env.Config.Source.HoldingsPath,
			GainsPath:    c.env.Config.Source.GainsPath,
		})
	}

	portfolioRepo := repository.NewPortfolioRepository(db)
	harvestService := service.NewHarvestService(db, portfolioRepo,
		repository.NewHoldingRepository(db), repository.NewCapitalGainsRepository(db))
	syncService := service.NewSyncService(portfolioRepo, harvestService, fetcher, c.env.Logger)

	var results []model.SyncResult
	if c.portfolioID != "" {
		res, err := syncService.SyncPortfolio(ctx, c.portfolioID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error syncing %s: %v\n", c.portfolioID, err)
			return subcommands.ExitFailure
		}
		results = append(results, res)
	} else {
		results, err = syncService.SyncAll(ctx)
	}

	for _, res := range results {
		fmt.Fprintf(c.env.Out, "%s\t%d holdings\n", res.PortfolioID, res.Holdings)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error syncing: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
