// Command harvest simulates tax loss harvesting from exported JSON files and
// manages the portfolios stored by the server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path"

	"github.com/google/subcommands"

	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/cli"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/config"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/logging"
)

func main() {
	name := path.Base(os.Args[0])
	cli.Complete(name)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(int(subcommands.ExitFailure))
	}

	logger := logging.New(logging.Config{
		Level:     cfg.Log.Level,
		Component: logging.ComponentCLI,
		Output:    os.Stderr,
		JSON:      cfg.Log.JSON,
	})

	commander := subcommands.NewCommander(flag.CommandLine, name)
	cli.Register(commander, cli.Env{Config: cfg, Logger: logger, Out: os.Stdout})

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	status := commander.Execute(ctx)
	stop()
	os.Exit(int(status))
}
