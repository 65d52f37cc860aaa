package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/lotledger/csvimport"
	"github.com/etnz/lotledger/renderer"
	"github.com/google/subcommands"
)

type fundsCmd struct{}

func (*fundsCmd) Name() string     { return "funds" }
func (*fundsCmd) Synopsis() string { return "display the funds added to the trading account" }
func (*fundsCmd) Usage() string {
	return `lots funds <file>

  Reads a funds file, a title line then "time,amount" records, and displays
  each entry with their total.
`
}

func (*fundsCmd) SetFlags(f *flag.FlagSet) {}

func (*fundsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "funds expects exactly one file")
		return subcommands.ExitUsageError
	}
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}

	file, err := os.Open(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening funds file: %v\n", err)
		return subcommands.ExitFailure
	}
	defer file.Close()

	funds, err := csvimport.New(cfg).ImportFunds(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %q: %v\n", f.Arg(0), err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.FundsMarkdown(funds))
	return subcommands.ExitSuccess
}
