package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/api/request"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/harvest"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/report"
)

// simulateCmd holds the flags for the 'simulate' subcommand.
type simulateCmd struct {
	env Env

	holdingsFile string
	holdingsPath string
	gainsFile    string
	gainsPath    string
	selected     string
	all          bool
	currency     string
	title        string
	format       string
}

func (*simulateCmd) Name() string     { return "simulate" }
func (*simulateCmd) Synopsis() string { return "simulate harvesting holdings from JSON files" }
func (*simulateCmd) Usage() string {
	return `harvest simulate -holdings <file> -gains <file> [-select <ids> | -all] [-currency <code>] [-format terminal|markdown|html]

  Reads holdings and capital gains in the data source's format and prints the
  capital gains before and after harvesting the selected holdings.
`
}

func (c *simulateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.holdingsFile, "holdings", "", "JSON file with the holdings")
	f.StringVar(&c.holdingsPath, "holdings-path", c.env.Config.Source.HoldingsPath, "JSONPath of the holdings list in the file")
	f.StringVar(&c.gainsFile, "gains", "", "JSON file with the capital gains")
	f.StringVar(&c.gainsPath, "gains-path", c.env.Config.Source.GainsPath, "JSONPath of the capital gains in the file")
	f.StringVar(&c.selected, "select", "", "Comma-separated holding ids to harvest")
	f.BoolVar(&c.all, "all", false, "Harvest every holding")
	f.StringVar(&c.currency, "currency", c.env.Config.Report.Currency, "ISO 4217 currency of the amounts")
	f.StringVar(&c.title, "title", "", "Report title")
	f.StringVar(&c.format, "format", formatTerminal, "Output format (terminal, markdown, html)")
}

func (c *simulateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.holdingsFile == "" || c.gainsFile == "" {
		fmt.Fprintln(os.Stderr, "-holdings and -gains are required")
		return subcommands.ExitUsageError
	}
	if c.all && c.selected != "" {
		fmt.Fprintln(os.Stderr, "-select and -all flags cannot be used together")
		return subcommands.ExitUsageError
	}
	switch c.format {
	case formatTerminal, formatMarkdown, formatHTML:
	default:
		fmt.Fprintf(os.Stderr, "unknown format %q\n", c.format)
		return subcommands.ExitUsageError
	}

	holdings, baseline, err := readInputs(c.holdingsFile, c.holdingsPath, c.gainsFile, c.gainsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		return subcommands.ExitFailure
	}

	selection := harvest.NewSelection(request.ParseIDList(c.selected)...)
	if c.all {
		selection.SelectAll(holdings)
	}

	md := report.Markdown(report.Report{
		Title:     c.title,
		Currency:  strings.ToUpper(c.currency),
		Holdings:  holdings,
		Selection: selection,
		Outcome:   harvest.Evaluate(baseline, holdings, selection),
	})

	switch c.format {
	case formatMarkdown:
		fmt.Fprint(c.env.Out, md)
	case formatHTML:
		doc, err := report.HTMLDocument(c.title, md)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering report: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Fprint(c.env.Out, doc)
	default:
		printMarkdown(c.env.Out, md)
	}

	return subcommands.ExitSuccess
}
