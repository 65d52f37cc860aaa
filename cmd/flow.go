package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"slices"

	"github.com/etnz/lotledger"
	"github.com/etnz/lotledger/date"
	"github.com/etnz/lotledger/renderer"
	"github.com/google/subcommands"
)

type flowCmd struct {
	assets string
	from   string
	to     string
}

func (*flowCmd) Name() string     { return "flow" }
func (*flowCmd) Synopsis() string { return "display the money flow of the transactions per asset" }
func (*flowCmd) Usage() string {
	return `lots flow [-a <asset,...>] [-s <date>] [-e <date>]

  Summarizes the transactions of the history without matching them: the
  buys and sells of each asset with their average prices, and the net value.
  Use -s and -e to restrict the transactions to a period, both included.
`
}

func (c *flowCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.assets, "a", "", "Comma separated asset names to report on. Defaults to all assets.")
	f.StringVar(&c.from, "s", "", "Start date of the period.")
	f.StringVar(&c.to, "e", "", "End date of the period.")
}

func (c *flowCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	period, err := date.ParseRange(c.from, c.to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing period: %v\n", err)
		return subcommands.ExitUsageError
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	txs, err := loadTransactions(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	txs = slices.DeleteFunc(txs, func(tx lotledger.Transaction) bool { return !period.Contains(tx.Date) })
	flow := lotledger.SummarizeTransactions(txs, parseAssets(c.assets))
	printMarkdown(renderer.FlowMarkdown(flow) + renderer.AnomaliesMarkdown(flow.Anomalies))
	return subcommands.ExitSuccess
}
