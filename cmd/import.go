package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/etnz/lotledger/csvimport"
	"github.com/etnz/lotledger/history"
	"github.com/etnz/lotledger/renderer"
	"github.com/google/subcommands"
)

type importCmd struct {
	format string
	dryRun bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import a broker export into the history" }
func (*importCmd) Usage() string {
	return `lots import -f <format> [-n] <file>

  Parses a broker export and appends its transactions to the history.
  Records that cannot be read are reported with their line number and
  skipped, the rest of the file is still imported.

  Formats: ` + strings.Join(csvimport.Formats(), ", ") + `
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "f", csvimport.KiteTrades, "Format of the export.")
	f.BoolVar(&c.dryRun, "n", false, "Parse and report, but do not append to the history.")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "import expects exactly one file")
		return subcommands.ExitUsageError
	}
	if !slices.Contains(csvimport.Formats(), c.format) {
		fmt.Fprintf(os.Stderr, "Unknown format %q, want one of %s\n", c.format, strings.Join(csvimport.Formats(), ", "))
		return subcommands.ExitUsageError
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}

	file, err := os.Open(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening export: %v\n", err)
		return subcommands.ExitFailure
	}
	defer file.Close()

	res, err := csvimport.New(cfg).Import(c.format, file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing %q: %v\n", f.Arg(0), err)
		return subcommands.ExitFailure
	}

	added := 0
	if len(res.Transactions) > 0 {
		store, err := history.Open(cfg.History)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening history: %v\n", err)
			return subcommands.ExitFailure
		}
		defer store.Close()
		if err := history.CheckCurrency(ctx, store, res.Transactions); err != nil {
			fmt.Fprintf(os.Stderr, "Error importing %q: %v\n", f.Arg(0), err)
			return subcommands.ExitFailure
		}
		if !c.dryRun {
			if err := store.Append(ctx, res.Transactions...); err != nil {
				fmt.Fprintf(os.Stderr, "Error appending to history %q: %v\n", cfg.History.Path, err)
				return subcommands.ExitFailure
			}
			added = len(res.Transactions)
		}
	}

	printMarkdown(renderer.ImportMarkdown(res, added))
	return subcommands.ExitSuccess
}
