package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/api/request"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/logging"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/repository"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/service"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/validation"
)

// importCmd holds the flags for the 'import' subcommand.
type importCmd struct {
	env Env

	dbPath       string
	portfolioID  string
	name         string
	currency     string
	holdingsFile string
	holdingsPath string
	gainsFile    string
	gainsPath    string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import holdings and capital gains into a portfolio" }
func (*importCmd) Usage() string {
	return `harvest import (-portfolio <id> | -name <name>) -holdings <file> [-gains <file>] [-db <path>]

  Replaces the holdings of a portfolio, and its capital gains when -gains is
  given. With -name a new portfolio is created first and its id printed.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dbPath, "db", c.env.Config.Database.Path, "Path to the SQLite database")
	f.StringVar(&c.portfolioID, "portfolio", "", "Id of the portfolio to import into")
	f.StringVar(&c.name, "name", "", "Name of a new portfolio to create")
	f.StringVar(&c.currency, "currency", "", "Currency of a new portfolio")
	f.StringVar(&c.holdingsFile, "holdings", "", "JSON file with the holdings")
	f.StringVar(&c.holdingsPath, "holdings-path", c.env.Config.Source.HoldingsPath, "JSONPath of the holdings list in the file")
	f.StringVar(&c.gainsFile, "gains", "", "JSON file with the capital gains")
	f.StringVar(&c.gainsPath, "gains-path", c.env.Config.Source.GainsPath, "JSONPath of the capital gains in the file")
}

func (c *importCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if (c.portfolioID == "") == (c.name == "") {
		fmt.Fprintln(os.Stderr, "exactly one of -portfolio and -name is required")
		return subcommands.ExitUsageError
	}
	if c.holdingsFile == "" {
		fmt.Fprintln(os.Stderr, "-holdings is required")
		return subcommands.ExitUsageError
	}
	if c.portfolioID != "" {
		if err := validation.ValidateUUID(c.portfolioID); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid portfolio id: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	holdings, baseline, err := readInputs(c.holdingsFile, c.holdingsPath, c.gainsFile, c.gainsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		return subcommands.ExitFailure
	}

	db, err := openDatabase(ctx, c.env, c.dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		return subcommands.ExitFailure
	}
	defer db.Close()

	portfolioRepo := repository.NewPortfolioRepository(db)
	harvestService := service.NewHarvestService(db, portfolioRepo,
		repository.NewHoldingRepository(db), repository.NewCapitalGainsRepository(db))

	portfolioID := c.portfolioID
	if c.name != "" {
		req := request.CreatePortfolioRequest{Name: c.name, Currency: c.currency}
		if err := validation.ValidateCreatePortfolio(req); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid portfolio: %v\n", err)
			return subcommands.ExitUsageError
		}
		p, err := service.NewPortfolioService(portfolioRepo, c.env.Config.Report.Currency).CreatePortfolio(ctx, req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating portfolio: %v\n", err)
			return subcommands.ExitFailure
		}
		portfolioID = p.ID
	}

	if err := harvestService.Import(ctx, portfolioID, holdings, baseline); err != nil {
		fmt.Fprintf(os.Stderr, "Error importing: %v\n", err)
		return subcommands.ExitFailure
	}

	c.env.Logger.Info("holdings imported",
		logging.FieldPortfolioID, portfolioID,
		logging.FieldHoldings, len(holdings),
	)
	fmt.Fprintln(c.env.Out, portfolioID)
	return subcommands.ExitSuccess
}
