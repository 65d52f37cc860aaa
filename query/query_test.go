package query

import (
	"slices"
	"strings"
	"testing"

	"github.com/etnz/lotledger"
	"github.com/etnz/lotledger/date"
)

func testSource(t *testing.T) Source {
	t.Helper()
	on := date.MustParse
	txs := []lotledger.Transaction{
		lotledger.NewTransaction("INFY", on("2025-01-01"), 100, 10, "INR"),
		lotledger.NewTransaction("TCS", on("2025-01-02"), 200, 5, "INR"),
		lotledger.NewTransaction("INFY", on("2025-02-01"), 120, -4, "INR"),
	}
	ledger, _, err := lotledger.Ingest(txs...)
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	return Source{Ledger: ledger, Transactions: txs}
}

func TestRun(t *testing.T) {
	src := testSource(t)
	testCases := []struct {
		doc, expr string
		want      any
	}{
		{"summary", "$.assetCount", 2.0},
		{"summary", "$.assets[0].realized.amount", 80.0},
		{"summary", "$.assets[1].held.quantity", 5.0},
		{"lots", "$[1].soldQty", 4.0},
		{"flow", "$.netQuantity", 11.0},
		{"transactions", "$[2].quantity", -4.0},
	}
	for _, tc := range testCases {
		got, err := src.Run(tc.doc, tc.expr)
		if err != nil {
			t.Errorf("Run(%q, %q) error = %v", tc.doc, tc.expr, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Run(%q, %q) = %v (%T), want %v", tc.doc, tc.expr, got, got, tc.want)
		}
	}
}

func TestRun_Wildcard(t *testing.T) {
	got, err := testSource(t).Run("summary", "$.assets[*].asset")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	list, ok := got.([]any)
	if !ok || !slices.Equal(list, []any{"INFY", "TCS"}) {
		t.Errorf("Run() = %v, want [INFY TCS]", got)
	}
}

func TestRun_Errors(t *testing.T) {
	src := testSource(t)
	if _, err := src.Run("portfolio", "$"); err == nil || !strings.Contains(err.Error(), "summary") {
		t.Errorf("Run() on an unknown document error = %v, want the list of documents", err)
	}
	if _, err := src.Run("summary", "$.assets[?("); err == nil {
		t.Errorf("Run() with a bad expression error = nil")
	}
}

func TestEval_Empty(t *testing.T) {
	doc := map[string]any{"a": 1.0}
	got, err := Eval(" ", doc)
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	if m, ok := got.(map[string]any); !ok || m["a"] != 1.0 {
		t.Errorf("Eval() = %v, want the document", got)
	}
}

func TestFormat(t *testing.T) {
	got, err := Format([]any{"INFY", 2.0})
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if want := "[\n  \"INFY\",\n  2\n]"; got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}
