// Package cli implements the harvest command line: simulating a harvest from
// exported JSON files, importing them into the database and syncing
// portfolios from their data source.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"maps"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/config"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/database"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/logging"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/model"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/source"
)

// Output formats of the simulate command.
const (
	formatTerminal = "terminal"
	formatMarkdown = "markdown"
	formatHTML     = "html"
)

// Env is what every command needs from the process.
type Env struct {
	Config *config.Config
	Logger *logging.Logger
	Out    io.Writer
}

// Commands returns the harvest subcommands.
func Commands(env Env) []subcommands.Command {
	if env.Out == nil {
		env.Out = os.Stdout
	}
	return []subcommands.Command{
		&simulateCmd{env: env},
		&importCmd{env: env},
		&syncCmd{env: env},
		&keygenCmd{env: env},
	}
}

// Register adds the harvest subcommands to c.
func Register(c *subcommands.Commander, env Env) {
	for _, cmd := range Commands(env) {
		c.Register(cmd, "")
	}
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
}

// Complete handles shell completion requests. It exits the process when the
// shell asked for completions and returns otherwise.
func Complete(name string) {
	jsonFiles := predict.Files("*.json")
	dbFlag := map[string]complete.Predictor{"db": predict.Files("*.db")}

	(&complete.Command{
		Sub: map[string]*complete.Command{
			"simulate": {Flags: map[string]complete.Predictor{
				"holdings":      jsonFiles,
				"gains":         jsonFiles,
				"holdings-path": predict.Something,
				"gains-path":    predict.Something,
				"select":        predict.Something,
				"all":           predict.Nothing,
				"currency":      predict.Something,
				"format":        predict.Set{formatTerminal, formatMarkdown, formatHTML},
			}},
			"import": {Flags: merge(dbFlag, map[string]complete.Predictor{
				"portfolio":     predict.Something,
				"name":          predict.Something,
				"currency":      predict.Something,
				"holdings":      jsonFiles,
				"gains":         jsonFiles,
				"holdings-path": predict.Something,
				"gains-path":    predict.Something,
			})},
			"sync": {Flags: merge(dbFlag, map[string]complete.Predictor{
				"portfolio": predict.Something,
			})},
			"keygen": {},
			"help":   {},
			"flags":  {},
		},
	}).Complete(name)
}

func merge(a, b map[string]complete.Predictor) map[string]complete.Predictor {
	m := maps.Clone(a)
	maps.Copy(m, b)
	return m
}

// printMarkdown renders md for the terminal. If rendering fails the raw
// markdown is printed instead.
func printMarkdown(w io.Writer, md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Fprint(w, out)
			return
		}
	}
	fmt.Fprint(w, md)
}

// readInputs decodes a holdings file and, when gainsFile is set, a capital
// gains file, both in the data source's wire format.
func readInputs(holdingsFile, holdingsPath, gainsFile, gainsPath string) ([]model.Holding, *model.CapitalGainsSummary, error) {
	data, err := os.ReadFile(holdingsFile)
	if err != nil {
		return nil, nil, err
	}
	holdings, err := source.DecodeHoldings(data, holdingsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", holdingsFile, err)
	}

	if gainsFile == "" {
		return holdings, nil, nil
	}
	data, err = os.ReadFile(gainsFile)
	if err != nil {
		return nil, nil, err
	}
	baseline, err := source.DecodeCapitalGains(data, gainsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", gainsFile, err)
	}
	return holdings, baseline, nil
}

// openDatabase opens and migrates the database at path.
func openDatabase(ctx context.Context, env Env, path string) (*sql.DB, error) {
	db, err := database.Open(path)
	if err != nil {
		return nil, err
	}
	applied, err := database.Migrate(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	if applied > 0 {
		env.Logger.Info("applied migrations", "count", applied)
	}
	return db, nil
}
