package cmd

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/google/subcommands"
)

const trades = `asset,date,price,quantity
INFY,2025-01-01,100,10
TCS,2025-01-02,200,5
INFY,2025-02-01,120,-4
`

// setup points the global flags to a fresh configuration and history in a
// temporary directory, and captures the reports.
func setup(t *testing.T) (dir string, out *bytes.Buffer) {
	t.Helper()
	dir = t.TempDir()
	t.Chdir(dir)
	t.Setenv("LOTS_HISTORY", "")
	t.Setenv("LOTS_CURRENCY", "")

	cfg := filepath.Join(dir, "lots.yaml")
	content := "currency: INR\nhistory:\n  path: " + filepath.Join(dir, "transactions.jsonl") + "\n"
	if err := os.WriteFile(cfg, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	oldConfig, oldRaw, oldStdout := *configFile, *rawOutput, stdout
	*configFile, *rawOutput = cfg, true
	out = new(bytes.Buffer)
	stdout = out
	t.Cleanup(func() { *configFile, *rawOutput, stdout = oldConfig, oldRaw, oldStdout })
	return dir, out
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return p
}

func run(t *testing.T, c subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatalf("cannot parse %v: %v", args, err)
	}
	return c.Execute(context.Background(), f)
}

// importTrades imports the trades into the history of the test.
func importTrades(t *testing.T, dir string, out *bytes.Buffer) {
	t.Helper()
	csv := writeFile(t, dir, "trades.csv", trades)
	if status := run(t, &importCmd{}, "-f", "generic", csv); status != subcommands.ExitSuccess {
		t.Fatalf("import status = %v, want success", status)
	}
	out.Reset()
}

func TestImport(t *testing.T) {
	dir, out := setup(t)
	csv := writeFile(t, dir, "trades.csv", trades)

	if status := run(t, &importCmd{}, "-f", "generic", "-n", csv); status != subcommands.ExitSuccess {
		t.Fatalf("dry run status = %v", status)
	}
	if !strings.Contains(out.String(), "Added to history: 0") {
		t.Errorf("dry run output:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "transactions.jsonl")); !os.IsNotExist(err) {
		t.Errorf("dry run created the history: %v", err)
	}

	out.Reset()
	if status := run(t, &importCmd{}, "-f", "generic", csv); status != subcommands.ExitSuccess {
		t.Fatalf("import status = %v", status)
	}
	if got := out.String(); !strings.Contains(got, "Transactions: 3") || !strings.Contains(got, "Added to history: 3") {
		t.Errorf("import output:\n%s", got)
	}
}

func TestImport_UsageErrors(t *testing.T) {
	dir, _ := setup(t)
	csv := writeFile(t, dir, "trades.csv", trades)

	if status := run(t, &importCmd{}, "-f", "generic"); status != subcommands.ExitUsageError {
		t.Errorf("import without file status = %v, want usage error", status)
	}
	if status := run(t, &importCmd{}, "-f", "csv", csv); status != subcommands.ExitUsageError {
		t.Errorf("import with unknown format status = %v, want usage error", status)
	}
	if status := run(t, &importCmd{}, "-f", "generic", filepath.Join(dir, "missing.csv")); status != subcommands.ExitFailure {
		t.Errorf("import of a missing file status = %v, want failure", status)
	}
}

func TestImport_OtherCurrency(t *testing.T) {
	dir, out := setup(t)
	importTrades(t, dir, out)
	before, err := os.ReadFile(filepath.Join(dir, "transactions.jsonl"))
	if err != nil {
		t.Fatal(err)
	}

	t.Setenv("LOTS_CURRENCY", "USD")
	csv := writeFile(t, dir, "usd.csv", "asset,date,price,quantity\nAAPL,2025-03-01,180,1\n")
	if status := run(t, &importCmd{}, "-f", "generic", "-n", csv); status != subcommands.ExitFailure {
		t.Errorf("dry run of USD trades status = %v, want failure", status)
	}
	if status := run(t, &importCmd{}, "-f", "generic", csv); status != subcommands.ExitFailure {
		t.Errorf("import of USD trades into an INR history status = %v, want failure", status)
	}
	after, err := os.ReadFile(filepath.Join(dir, "transactions.jsonl"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, after) {
		t.Errorf("rejected import changed the history:\n%s", after)
	}
}

func TestNames(t *testing.T) {
	dir, out := setup(t)
	importTrades(t, dir, out)

	if status := run(t, &namesCmd{}); status != subcommands.ExitSuccess {
		t.Fatalf("names status = %v", status)
	}
	if got, want := out.String(), "INFY\nTCS\n"; got != want {
		t.Errorf("names = %q, want %q", got, want)
	}
}

func TestSummary(t *testing.T) {
	dir, out := setup(t)
	importTrades(t, dir, out)

	if status := run(t, &summaryCmd{}, "-a", "INFY", "-details"); status != subcommands.ExitSuccess {
		t.Fatalf("summary status = %v", status)
	}
	got := out.String()
	for _, want := range []string{"# Lots Summary", "| INFY | 6 |", "### INFY lots"} {
		if !strings.Contains(got, want) {
			t.Errorf("summary misses %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "| TCS |") {
		t.Errorf("summary is not filtered:\n%s", got)
	}

	out.Reset()
	if status := run(t, &summaryCmd{}, "-plain"); status != subcommands.ExitSuccess {
		t.Fatalf("plain summary status = %v", status)
	}
	if got := out.String(); !strings.Contains(got, "INFY") || !strings.Contains(got, "TCS") {
		t.Errorf("plain summary:\n%s", got)
	}
}

func TestSummary_Halt(t *testing.T) {
	dir, out := setup(t)
	importTrades(t, dir, out)
	sell := writeFile(t, dir, "sell.csv", "asset,date,price,quantity\nWIPRO,2025-03-01,10,-1\n")
	if status := run(t, &importCmd{}, "-f", "generic", sell); status != subcommands.ExitSuccess {
		t.Fatalf("import status = %v", status)
	}
	out.Reset()

	if status := run(t, &summaryCmd{}); status != subcommands.ExitSuccess {
		t.Fatalf("summary status = %v, want success with anomalies", status)
	}
	if !strings.Contains(out.String(), "uncovered-sell") {
		t.Errorf("summary does not list the anomaly:\n%s", out)
	}
	if status := run(t, &summaryCmd{}, "-halt"); status != subcommands.ExitFailure {
		t.Errorf("summary -halt status = %v, want failure", status)
	}
}

func TestLots(t *testing.T) {
	dir, out := setup(t)
	importTrades(t, dir, out)

	if status := run(t, &lotsCmd{}, "-open"); status != subcommands.ExitSuccess {
		t.Fatalf("lots status = %v", status)
	}
	if got := out.String(); !strings.Contains(got, "2 lots") {
		t.Errorf("lots -open output:\n%s", got)
	}

	out.Reset()
	if status := run(t, &lotsCmd{}, "-a", "INFY"); status != subcommands.ExitSuccess {
		t.Fatalf("lots status = %v", status)
	}
	if got := out.String(); !strings.Contains(got, "2 lots") || strings.Contains(got, "TCS") {
		t.Errorf("lots -a INFY output:\n%s", got)
	}
}

func TestLots_Snapshot(t *testing.T) {
	dir, out := setup(t)
	importTrades(t, dir, out)

	if status := run(t, &lotsCmd{}, "-json"); status != subcommands.ExitSuccess {
		t.Fatalf("lots -json status = %v", status)
	}
	if lines := strings.Count(out.String(), "\n"); lines != 3 {
		t.Errorf("lots -json wrote %d lines, want 3:\n%s", lines, out)
	}
	snapshot := writeFile(t, dir, "lots.jsonl", out.String())

	// the snapshot is read even once the history is gone.
	if err := os.Remove(filepath.Join(dir, "transactions.jsonl")); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if status := run(t, &lotsCmd{}, "-snapshot", snapshot, "-open", "-a", "INFY"); status != subcommands.ExitSuccess {
		t.Fatalf("lots -snapshot status = %v", status)
	}
	if got := out.String(); !strings.Contains(got, "1 lots") || strings.Contains(got, "TCS") {
		t.Errorf("lots -snapshot output:\n%s", got)
	}

	invalid := writeFile(t, dir, "invalid.jsonl", "{\"asset\":\"X\"}\n")
	if status := run(t, &lotsCmd{}, "-snapshot", invalid); status != subcommands.ExitFailure {
		t.Errorf("lots with an invalid snapshot status = %v, want failure", status)
	}
}

func TestFlow(t *testing.T) {
	dir, out := setup(t)
	importTrades(t, dir, out)

	if status := run(t, &flowCmd{}); status != subcommands.ExitSuccess {
		t.Fatalf("flow status = %v", status)
	}
	if got := out.String(); !strings.Contains(got, "2 assets, net quantity 11\n") {
		t.Errorf("flow output:\n%s", got)
	}
}

func TestQuery(t *testing.T) {
	dir, out := setup(t)
	importTrades(t, dir, out)

	if status := run(t, &queryCmd{}, "$.assetCount"); status != subcommands.ExitSuccess {
		t.Fatalf("query status = %v", status)
	}
	if got := out.String(); got != "2\n" {
		t.Errorf("query = %q, want 2", got)
	}
	if status := run(t, &queryCmd{}, "-d", "portfolio", "$"); status != subcommands.ExitUsageError {
		t.Errorf("query of an unknown document status = %v, want usage error", status)
	}
}

func TestFunds(t *testing.T) {
	dir, out := setup(t)
	funds := writeFile(t, dir, "funds.csv", "Funds added\n20210401IST1015,1000\n20210501IST1015,-250\n")

	if status := run(t, &fundsCmd{}, funds); status != subcommands.ExitSuccess {
		t.Fatalf("funds status = %v", status)
	}
	if got := out.String(); !strings.Contains(got, "750") {
		t.Errorf("funds output misses the total:\n%s", got)
	}
}

func TestCompletion(t *testing.T) {
	fs := flag.NewFlagSet("lots", flag.ContinueOnError)
	fs.String("config", "lots.yaml", "")
	root := Completion(fs)

	if root.Flags["config"] == nil {
		t.Errorf("global flag config is not completed")
	}
	for _, c := range Commands {
		if root.Sub[c.Name()] == nil {
			t.Errorf("subcommand %q is not completed", c.Name())
		}
	}
	formats := root.Sub["import"].Flags["f"].Predict("")
	if !slices.Contains(formats, "generic") {
		t.Errorf("import -f predicts %v, want the formats", formats)
	}
	if root.Sub["summary"].Flags["details"] == nil {
		t.Errorf("summary -details is not completed")
	}
}

func TestTopic(t *testing.T) {
	_, out := setup(t)
	if status := run(t, &topicCmd{}, "fifo"); status != subcommands.ExitSuccess {
		t.Fatalf("topic status = %v", status)
	}
	if !strings.Contains(out.String(), "# FIFO matching") {
		t.Errorf("topic output:\n%s", out)
	}
	if status := run(t, &topicCmd{}, "dividends"); status != subcommands.ExitFailure {
		t.Errorf("unknown topic status = %v, want failure", status)
	}
}

func TestFlow_Period(t *testing.T) {
	dir, out := setup(t)
	importTrades(t, dir, out)

	if status := run(t, &flowCmd{}, "-s", "2025-01-02"); status != subcommands.ExitSuccess {
		t.Fatalf("flow status = %v", status)
	}
	if got := out.String(); !strings.Contains(got, "2 assets, net quantity 1\n") {
		t.Errorf("flow -s output:\n%s", got)
	}
	if status := run(t, &flowCmd{}, "-s", "2025-02-01", "-e", "2025-01-01"); status != subcommands.ExitUsageError {
		t.Errorf("flow with a reversed period status = %v, want usage error", status)
	}
}
