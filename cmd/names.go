package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/lotledger"
	"github.com/google/subcommands"
)

type namesCmd struct{}

func (*namesCmd) Name() string     { return "names" }
func (*namesCmd) Synopsis() string { return "list the asset names of the ledger" }
func (*namesCmd) Usage() string {
	return `lots names

  Prints the sorted asset names found in the ledger, one per line.
`
}

func (*namesCmd) SetFlags(f *flag.FlagSet) {}

func (*namesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	ledger, _, err := decodeLedger(ctx, cfg, lotledger.Continue)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	for _, name := range ledger.AssetNames() {
		fmt.Fprintln(stdout, name)
	}
	return subcommands.ExitSuccess
}
