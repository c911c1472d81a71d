package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/selectiontoken"
)

// keygenCmd prints a new SELECTION_TOKEN_KEY.
type keygenCmd struct {
	env Env
}

func (*keygenCmd) Name() string     { return "keygen" }
func (*keygenCmd) Synopsis() string { return "generate a selection token key" }
func (*keygenCmd) Usage() string {
	return `harvest keygen

  Prints a random key for SELECTION_TOKEN_KEY. Tokens stay valid across
  server restarts only when the key is set.
`
}

func (*keygenCmd) SetFlags(*flag.FlagSet) {}

func (c *keygenCmd) Execute(context.Context, *flag.FlagSet, ...interface{}) subcommands.ExitStatus {
	key, err := selectiontoken.GenerateKey()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating key: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintln(c.env.Out, key)
	return subcommands.ExitSuccess
}
