package cli

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/config"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/database"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/logging"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/model"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/repository"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/testutil"
)

const (
	holdingsJSON = `{"data":[
		{"coin":"BTC","coinName":"Bitcoin","currentPrice":60000,"totalHolding":0.5,"averageBuyPrice":40000,
		 "stcg":{"balance":0.2,"gain":-300},"ltcg":{"balance":0.3,"gain":200}},
		{"coin":"ETH","coinName":"Ethereum","currentPrice":2500,"totalHolding":3,"averageBuyPrice":2000,
		 "stcg":{"balance":3,"gain":400},"ltcg":{"balance":0,"gain":0}}
	]}`
	gainsJSON = `{"capitalGains":{"stcg":{"profits":1000,"losses":200},"ltcg":{"profits":500,"losses":100}}}`
)

func testEnv(t *testing.T) (Env, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	return Env{
		Config: &config.Config{
			Database: config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "harvest.db")},
			Report:   config.ReportConfig{Currency: "USD"},
			Source:   config.SourceConfig{HoldingsPath: "$.data", GainsPath: "$.capitalGains"},
		},
		Logger: logging.Discard(),
		Out:    &out,
	}, &out
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

// run parses args for cmd and executes it.
func run(t *testing.T, cmd subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.SetFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("Failed to parse flags %v: %v", args, err)
	}
	return cmd.Execute(context.Background(), fs)
}

func TestSimulateCmd(t *testing.T) {
	holdings := writeFile(t, "holdings.json", holdingsJSON)
	gains := writeFile(t, "gains.json", gainsJSON)

	t.Run("prints the markdown report", func(t *testing.T) {
		env, out := testEnv(t)

		status := run(t, &simulateCmd{env: env}, "-holdings", holdings, "-gains", gains, "-select", "ETH", "-format", "markdown", "-title", "Exchange")

		if status != subcommands.ExitSuccess {
			t.Fatalf("Expected success, got %v", status)
		}
		for _, want := range []string{"# Tax Loss Harvesting: Exchange", "You're going to save **$400.00**", "**ETH** Ethereum"} {
			if !strings.Contains(out.String(), want) {
				t.Errorf("Expected output to contain %q\n%s", want, out.String())
			}
		}
	})

	t.Run("-all selects every holding", func(t *testing.T) {
		env, out := testEnv(t)

		status := run(t, &simulateCmd{env: env}, "-holdings", holdings, "-gains", gains, "-all", "-format", "markdown")

		if status != subcommands.ExitSuccess {
			t.Fatalf("Expected success, got %v", status)
		}
		if !strings.Contains(out.String(), "**BTC** Bitcoin") || !strings.Contains(out.String(), "**ETH** Ethereum") {
			t.Errorf("Expected both holdings in the report\n%s", out.String())
		}
	})

	t.Run("renders html", func(t *testing.T) {
		env, out := testEnv(t)

		run(t, &simulateCmd{env: env}, "-holdings", holdings, "-gains", gains, "-format", "html")

		if !strings.HasPrefix(out.String(), "<!DOCTYPE html>") {
			t.Errorf("Expected an html document, got %q", out.String())
		}
	})

	t.Run("renders for the terminal", func(t *testing.T) {
		env, out := testEnv(t)

		if status := run(t, &simulateCmd{env: env}, "-holdings", holdings, "-gains", gains); status != subcommands.ExitSuccess {
			t.Fatalf("Expected success, got %v", status)
		}
		if !strings.Contains(out.String(), "Before Harvesting") {
			t.Errorf("Expected rendered report, got %q", out.String())
		}
	})

	tests := []struct {
		name string
		args []string
		want subcommands.ExitStatus
	}{
		{"missing gains", []string{"-holdings", holdings}, subcommands.ExitUsageError},
		{"select with all", []string{"-holdings", holdings, "-gains", gains, "-all", "-select", "BTC"}, subcommands.ExitUsageError},
		{"unknown format", []string{"-holdings", holdings, "-gains", gains, "-format", "pdf"}, subcommands.ExitUsageError},
		{"missing file", []string{"-holdings", "nope.json", "-gains", gains}, subcommands.ExitFailure},
		{"wrong path", []string{"-holdings", holdings, "-holdings-path", "$.items", "-gains", gains}, subcommands.ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, _ := testEnv(t)
			if got := run(t, &simulateCmd{env: env}, tt.args...); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestImportCmd(t *testing.T) {
	holdings := writeFile(t, "holdings.json", holdingsJSON)
	gains := writeFile(t, "gains.json", gainsJSON)

	openDB := func(t *testing.T, path string) *repository.HoldingRepository {
		t.Helper()
		db, err := database.Open(path)
		if err != nil {
			t.Fatalf("Failed to open database: %v", err)
		}
		t.Cleanup(func() { db.Close() })
		return repository.NewHoldingRepository(db)
	}

	t.Run("creates a portfolio and imports into it", func(t *testing.T) {
		env, out := testEnv(t)

		status := run(t, &importCmd{env: env}, "-name", "Exchange", "-holdings", holdings, "-gains", gains)
		if status != subcommands.ExitSuccess {
			t.Fatalf("Expected success, got %v", status)
		}

		portfolioID := strings.TrimSpace(out.String())
		stored, err := openDB(t, env.Config.Database.Path).GetHoldings(context.Background(), portfolioID)
		if err != nil {
			t.Fatalf("GetHoldings() returned unexpected error: %v", err)
		}
		if len(stored) != 2 || stored[0].ID != "BTC" {
			t.Errorf("Expected BTC and ETH, got %+v", stored)
		}
		if !stored[0].STCG.Gain.Equal(decimal.NewFromInt(-300)) {
			t.Errorf("Expected BTC stcg gain -300, got %s", stored[0].STCG.Gain)
		}
	})

	t.Run("imports into an existing portfolio", func(t *testing.T) {
		env, out := testEnv(t)
		run(t, &importCmd{env: env}, "-name", "Exchange", "-holdings", holdings)
		portfolioID := strings.TrimSpace(out.String())
		out.Reset()

		single := writeFile(t, "single.json", `{"data":[{"coin":"SOL","totalHolding":10}]}`)
		if status := run(t, &importCmd{env: env}, "-portfolio", portfolioID, "-holdings", single); status != subcommands.ExitSuccess {
			t.Fatalf("Expected success, got %v", status)
		}

		stored, _ := openDB(t, env.Config.Database.Path).GetHoldings(context.Background(), portfolioID)
		if len(stored) != 1 || stored[0].ID != "SOL" {
			t.Errorf("Expected holdings replaced by SOL, got %+v", stored)
		}
	})

	tests := []struct {
		name string
		args []string
		want subcommands.ExitStatus
	}{
		{"neither portfolio nor name", []string{"-holdings", holdings}, subcommands.ExitUsageError},
		{"both portfolio and name", []string{"-portfolio", testutil.MakeID(), "-name", "x", "-holdings", holdings}, subcommands.ExitUsageError},
		{"malformed portfolio id", []string{"-portfolio", "abc", "-holdings", holdings}, subcommands.ExitUsageError},
		{"unknown portfolio", []string{"-portfolio", testutil.MakeID(), "-holdings", holdings}, subcommands.ExitFailure},
		{"missing holdings", []string{"-name", "x"}, subcommands.ExitUsageError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, _ := testEnv(t)
			if got := run(t, &importCmd{env: env}, tt.args...); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestSyncCmd(t *testing.T) {
	seed := func(t *testing.T, env Env, sourceURL string) model.Portfolio {
		t.Helper()
		db, err := database.Open(env.Config.Database.Path)
		if err != nil {
			t.Fatalf("Failed to open database: %v", err)
		}
		defer db.Close()
		if _, err := database.Migrate(context.Background(), db); err != nil {
			t.Fatalf("Failed to migrate: %v", err)
		}
		return testutil.NewPortfolio().WithSourceURL(sourceURL).Build(t, db)
	}

	t.Run("syncs every sourced portfolio", func(t *testing.T) {
		env, out := testEnv(t)
		p := seed(t, env, "https://source.example")
		seed(t, env, "")
		fetcher := testutil.NewMockSourceClient()

		status := run(t, &syncCmd{env: env, fetcher: fetcher})

		if status != subcommands.ExitSuccess {
			t.Fatalf("Expected success, got %v", status)
		}
		if want := p.ID + "\t3 holdings"; !strings.Contains(out.String(), want) {
			t.Errorf("Expected %q in output, got %q", want, out.String())
		}
		if fetcher.FetchCount.Load() != 2 {
			t.Errorf("Expected only the sourced portfolio to be fetched, got %d fetches", fetcher.FetchCount.Load())
		}
	})

	t.Run("fails when a single portfolio has no source", func(t *testing.T) {
		env, _ := testEnv(t)
		p := seed(t, env, "")

		if status := run(t, &syncCmd{env: env, fetcher: testutil.NewMockSourceClient()}, "-portfolio", p.ID); status != subcommands.ExitFailure {
			t.Errorf("Expected failure, got %v", status)
		}
	})

	t.Run("syncs over HTTP with the configured paths", func(t *testing.T) {
		env, out := testEnv(t)
		env.Config.Source.HoldingsPath = "$"
		srv := testutil.NewSourceServer(t, testutil.NewMockSourceClient().MockHoldings, testutil.MakeCapitalGains("10", "0", "0", "0"))
		p := seed(t, env, srv.URL)
		env.Config.Source.Timeout = 5 * time.Second

		if status := run(t, &syncCmd{env: env}, "-portfolio", p.ID); status != subcommands.ExitSuccess {
			t.Fatalf("Expected success, got %v", status)
		}
		if !strings.Contains(out.String(), "3 holdings") {
			t.Errorf("Expected 3 holdings synced, got %q", out.String())
		}
	})
}

func TestKeygenCmd(t *testing.T) {
	env, out := testEnv(t)

	if status := run(t, &keygenCmd{env: env}); status != subcommands.ExitSuccess {
		t.Fatalf("Expected success, got %v", status)
	}
	if len(strings.TrimSpace(out.String())) != 44 {
		t.Errorf("Expected a 44 character base64 key, got %q", out.String())
	}
}

func TestCommands(t *testing.T) {
	env, _ := testEnv(t)

	var names []string
	for _, c := range Commands(env) {
		names = append(names, c.Name())
	}
	if strings.Join(names, ",") != "simulate,import,sync,keygen" {
		t.Errorf("Expected simulate,import,sync,keygen, got %v", names)
	}
}
