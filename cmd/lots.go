package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/lotledger"
	"github.com/etnz/lotledger/renderer"
	"github.com/google/subcommands"
)

type lotsCmd struct {
	assets   string
	open     bool
	plain    bool
	json     bool
	snapshot string
}

func (*lotsCmd) Name() string     { return "lots" }
func (*lotsCmd) Synopsis() string { return "display the lots of the ledger" }
func (*lotsCmd) Usage() string {
	return `lots lots [-a <asset,...>] [-open] [-plain | -json] [-snapshot <file>]

  Displays every lot in ledger order, with its buy side, its sell side and
  its status.

  With -json the lots are written as json lines, a snapshot that -snapshot
  reads back instead of rebuilding the ledger from the history.
`
}

func (c *lotsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.assets, "a", "", "Comma separated asset names to display. Defaults to all assets.")
	f.BoolVar(&c.open, "open", false, "Only display the lots with a quantity in hand.")
	f.BoolVar(&c.plain, "plain", false, "Print a plain text table instead of markdown.")
	f.BoolVar(&c.json, "json", false, "Print the lots as json lines.")
	f.StringVar(&c.snapshot, "snapshot", "", "Read the lots from a file written with -json instead of the history.")
}

func (c *lotsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	var ledger *lotledger.Ledger
	var anomalies []lotledger.Anomaly
	if c.snapshot != "" {
		ledger, err = readSnapshot(c.snapshot)
	} else {
		ledger, anomalies, err = decodeLedger(ctx, cfg, lotledger.Continue)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	filter := parseAssets(c.assets)
	var lots []*lotledger.Lot
	for _, lot := range ledger.All() {
		if filter.Match(lot.Asset) && (!c.open || lot.Open()) {
			lots = append(lots, lot)
		}
	}

	switch {
	case c.json:
		if err := lotledger.EncodeLots(stdout, lots); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding lots: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	case c.plain:
		if err := renderer.LotsTable(stdout, lots); err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering lots: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.LotsMarkdown(lots) + renderer.AnomaliesMarkdown(anomalies))
	return subcommands.ExitSuccess
}

func readSnapshot(path string) (*lotledger.Ledger, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ledger, err := lotledger.DecodeLots(f)
	if err != nil {
		return nil, fmt.Errorf("snapshot %q: %w", path, err)
	}
	return ledger, nil
}
