package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/lotledger"
	"github.com/etnz/lotledger/renderer"
	"github.com/google/subcommands"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	assets  string
	details bool
	plain   bool
	halt    bool
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the held, bought, sold and realized amounts per asset" }
func (*summaryCmd) Usage() string {
	return `lots summary [-a <asset,...>] [-details] [-plain] [-halt]

  Rebuilds the ledger from the history and displays, for each asset, the
  quantity in hand with its invested value, the bought and sold quantities
  with their average prices, and the realized profit or loss.
  Anomalies found while matching sells are listed after the report.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.assets, "a", "", "Comma separated asset names to report on. Defaults to all assets.")
	f.BoolVar(&c.details, "details", false, "List the lots of each asset.")
	f.BoolVar(&c.plain, "plain", false, "Print a plain text table instead of markdown.")
	f.BoolVar(&c.halt, "halt", false, "Stop at the first anomaly and fail.")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}

	policy := lotledger.Continue
	if c.halt {
		policy = lotledger.Halt
	}
	ledger, anomalies, err := decodeLedger(ctx, cfg, policy)
	if errors.Is(err, lotledger.ErrHalted) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	s := lotledger.Summarize(ledger, parseAssets(c.assets), c.details)
	anomalies = append(anomalies, s.Anomalies...)

	if c.plain {
		if err := renderer.SummaryTable(stdout, s); err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering summary: %v\n", err)
			return subcommands.ExitFailure
		}
		for _, a := range anomalies {
			fmt.Fprintf(os.Stderr, "%s: %v\n", a.Kind(), a)
		}
		return subcommands.ExitSuccess
	}

	printMarkdown(renderer.SummaryMarkdown(s, renderer.SummaryRenderOptions{}) + renderer.AnomaliesMarkdown(anomalies))
	return subcommands.ExitSuccess
}
