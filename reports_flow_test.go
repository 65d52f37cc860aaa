package lotledger

import (
	"errors"
	"strings"
	"testing"
)

func TestSummarizeTransactions(t *testing.T) {
	txs := []Transaction{
		buy("B", "2025-01-01", 10, 4),
		buy("A", "2025-01-02", 100, 1),
		buy("B", "2025-01-03", 20, 6),
		sell("B", "2025-01-04", 30, 5),
		buy("C", "2025-01-05", 1, 1),
	}

	f := SummarizeTransactions(txs, NewFilter("A", "B"))
	if f.AssetCount != 2 || f.Assets[0].Asset != "A" || f.Assets[1].Asset != "B" {
		t.Fatalf("SummarizeTransactions() assets = %+v, want A then B", f.Assets)
	}
	b := f.Assets[1]
	if !b.Buys.Quantity.Equal(Q(10)) || !b.Buys.Value.Equal(INR(160)) || !b.Buys.Average.Equal(INR(16)) {
		t.Errorf("B buys = %+v, want 10 for 160 at 16", b.Buys)
	}
	if !b.Sells.Quantity.Equal(Q(5)) || !b.Sells.Value.Equal(INR(150)) || !b.Sells.Average.Equal(INR(30)) {
		t.Errorf("B sells = %+v, want 5 for 150 at 30", b.Sells)
	}
	if !b.Net.Equal(INR(10)) {
		t.Errorf("B net = %v, want 10", b.Net)
	}
	if !f.NetQuantity.Equal(Q(6)) || !f.NetValue.Equal(INR(110)) {
		t.Errorf("net = %v for %v, want 6 for 110", f.NetQuantity, f.NetValue)
	}
	if len(f.Anomalies) != 0 {
		t.Errorf("anomalies = %v", f.Anomalies)
	}
}

func TestSummarizeTransactions_Empty(t *testing.T) {
	f := SummarizeTransactions(nil, nil)
	if f.AssetCount != 0 || f.Assets == nil {
		t.Errorf("SummarizeTransactions(nil) = %+v, want an empty flow", f)
	}
}

func TestSummarizeTransactions_MixedCurrencies(t *testing.T) {
	txs := []Transaction{
		NewTransaction("X", on("2025-01-01"), 100, 10, "INR"),
		NewTransaction("X", on("2025-01-02"), 100, 5, "USD"),
		NewTransaction("X", on("2025-01-03"), 110, -2, "INR"),
	}

	f := SummarizeTransactions(txs, nil)
	if len(f.Anomalies) != 1 {
		t.Fatalf("anomalies = %v, want the USD transaction", f.Anomalies)
	}
	var inc *Inconsistency
	if !errors.As(f.Anomalies[0], &inc) || inc.Side != "currency" || inc.Line != 2 {
		t.Fatalf("anomaly = %#v, want a currency inconsistency on line 2", f.Anomalies[0])
	}
	if !strings.Contains(inc.Error(), "not in INR") {
		t.Errorf("anomaly message = %q", inc.Error())
	}
	if !f.NetQuantity.Equal(Q(8)) || !f.NetValue.Equal(INR(780)) {
		t.Errorf("net = %v for %v, want 8 for 780 without the USD transaction", f.NetQuantity, f.NetValue)
	}
}
