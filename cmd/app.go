// Package cmd implements the CLI application to import trades and report on
// their lots.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/lotledger"
	"github.com/etnz/lotledger/config"
	"github.com/etnz/lotledger/history"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, cmd := range Commands {
		c.Register(cmd, cmd.group)
	}
}

type command struct {
	subcommands.Command
	group string
}

// Commands lists the subcommands with their group.
var Commands = []command{
	{&importCmd{}, "history"},
	{&fundsCmd{}, "history"},
	{&namesCmd{}, "reports"},
	{&summaryCmd{}, "reports"},
	{&lotsCmd{}, "reports"},
	{&flowCmd{}, "reports"},
	{&queryCmd{}, "reports"},
	{&topicCmd{}, "help"},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "lots.yaml", "Path to the configuration file (YAML)")
var rawOutput = flag.Bool("raw", false, "Print markdown reports as is, without terminal rendering")

// stdout receives the reports.
var stdout io.Writer = os.Stdout

// loadConfig reads the configuration file and sets up the default logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	setupLogger(cfg.Log)
	return cfg, nil
}

// loadTransactions returns the transactions of the configured history.
func loadTransactions(ctx context.Context, cfg *config.Config) ([]lotledger.Transaction, error) {
	store, err := history.Open(cfg.History)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	txs, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot load history %q: %w", cfg.History.Path, err)
	}
	return txs, nil
}

// decodeLedger rebuilds the ledger from the configured history.
func decodeLedger(ctx context.Context, cfg *config.Config, policy lotledger.Policy) (*lotledger.Ledger, []lotledger.Anomaly, error) {
	store, err := history.Open(cfg.History)
	if err != nil {
		return nil, nil, err
	}
	defer store.Close()
	return history.Ledger(ctx, store, policy)
}

// parseAssets splits a comma separated list of asset names.
func parseAssets(list string) lotledger.Filter {
	var names []string
	for _, name := range strings.Split(list, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return lotledger.NewFilter(names...)
}

// printMarkdown renders md for the terminal, or prints it as is with -raw.
func printMarkdown(md string) {
	if *rawOutput {
		fmt.Fprint(stdout, md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	fmt.Fprint(stdout, out)
}
