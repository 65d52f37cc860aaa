package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/etnz/lotledger"
	"github.com/etnz/lotledger/query"
	"github.com/google/subcommands"
)

type queryCmd struct {
	doc string
}

func (*queryCmd) Name() string     { return "query" }
func (*queryCmd) Synopsis() string { return "select values out of a report with a JSONPath expression" }
func (*queryCmd) Usage() string {
	return `lots query [-d <document>] <expression>

  Evaluates a JSONPath expression against the JSON form of a report and
  prints the result as JSON. An empty expression prints the whole document.

  Documents: ` + strings.Join(query.Names(), ", ") + `

Usage Examples:
$ lots query '$.assets[*].realized.amount'
$ lots query -d lots '$[?(@.asset == "INFY")].buyQty'
`
}

func (c *queryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.doc, "d", "summary", "Document to query.")
}

func (c *queryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "query expects at most one expression")
		return subcommands.ExitUsageError
	}
	if !slices.Contains(query.Names(), c.doc) {
		fmt.Fprintf(os.Stderr, "Unknown document %q, want one of %s\n", c.doc, strings.Join(query.Names(), ", "))
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
	ledger, _, err := lotledger.Ingest(txs...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	src := query.Source{Ledger: ledger, Transactions: txs}
	v, err := src.Run(c.doc, f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	out, err := query.Format(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding result: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintln(stdout, out)
	return subcommands.ExitSuccess
}
