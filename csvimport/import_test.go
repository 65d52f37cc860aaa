package csvimport

import (
	"errors"
	"strings"
	"testing"

	"github.com/etnz/lotledger"
	"github.com/etnz/lotledger/config"
	"github.com/etnz/lotledger/date"
)

func newTestImporter() *Importer {
	cfg := config.Default()
	cfg.Import.Symbols.Map = map[string]string{"SUBEXLTD": "SUBEX"}
	return New(cfg)
}

// want is the expected content of an imported transaction.
type want struct {
	asset    string
	day      string
	price    float64
	quantity float64
}

func checkTransactions(t *testing.T, got []lotledger.Transaction, wants []want) {
	t.Helper()
	if len(got) != len(wants) {
		t.Fatalf("imported %d transactions %v, want %d", len(got), got, len(wants))
	}
	for i, w := range wants {
		tx := got[i]
		if tx.Asset != w.asset || tx.Date != date.MustParse(w.day) ||
			!tx.Price.Equal(lotledger.M(w.price, "INR")) || !tx.Quantity.Equal(lotledger.Q(w.quantity)) {
			t.Errorf("transaction #%d = %v, want %v", i, tx, w)
		}
	}
}

func TestImport_KiteTrades(t *testing.T) {
	export := `Time,Type,Instrument,Product,Qty.,Avg. price,Status
2021-04-05 11:30:00,BUY,INFY,CNC,10,"1,400.50",COMPLETE
2021-04-06 09:15:00,SELL,IRCTC-BE,CNC,2,1800,COMPLETE

2021-04-07 10:00:00,BUY,TCS,CNC,ten,3000,COMPLETE
2021-04-08 10:00:00,BUY,SUBEXLTD,CNC,"1,000",25.5,COMPLETE
`
	res, err := newTestImporter().Import(KiteTrades, strings.NewReader(export))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	checkTransactions(t, res.Transactions, []want{
		{"INFY", "2021-04-05 11:30:00", 1400.5, 10},
		{"IRCTC", "2021-04-06 09:15:00", 1800, -2},
		{"SUBEX", "2021-04-08 10:00:00", 25.5, 1000},
	})
	if len(res.Issues) != 1 || res.Issues[0].Line != 5 {
		t.Errorf("Import() issues = %v, want one on line 5", res.Issues)
	}
	if res.Skipped != 1 {
		t.Errorf("Import() skipped %d, want 1", res.Skipped)
	}
}

func TestImport_KiteTrades_BadHeader(t *testing.T) {
	_, err := newTestImporter().Import(KiteTrades, strings.NewReader("Date,Symbol\n"))
	if err == nil {
		t.Errorf("Import() error = nil, want a header error")
	}
	_, err = newTestImporter().Import(KiteTrades, strings.NewReader(""))
	if err == nil {
		t.Errorf("Import() of an empty export error = nil, want a header error")
	}
}

func TestImport_H7O1(t *testing.T) {
	export := `Assets O1 export
1,20210405IST1130,INFY,"14,005",1400.5,10
2,20210406IST0915,#NOTE,0,0,0
3,Total,,,,
4,20210407IST1000,TCS,-6000,3000,-2
5,20210408IST1000,WIPRO,1000,400,2
short
6,20210409IST1000,HDFC,100
`
	res, err := newTestImporter().Import(H7O1, strings.NewReader(export))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	checkTransactions(t, res.Transactions, []want{
		{"INFY", "2021-04-05 11:30:00", 1400.5, 10},
		{"TCS", "2021-04-07 10:00:00", 3000, -2},
		{"WIPRO", "2021-04-08 10:00:00", 400, 2},
	})
	if len(res.Issues) != 2 {
		t.Fatalf("Import() issues = %v, want 2", res.Issues)
	}

	// the total of WIPRO is not price × quantity, it is imported anyway.
	var inconsistency *lotledger.Inconsistency
	if !errors.As(res.Issues[0].Err, &inconsistency) {
		t.Fatalf("issue = %v, want an *Inconsistency", res.Issues[0])
	}
	if inconsistency.Line != 6 || inconsistency.Asset != "WIPRO" || !inconsistency.Want.Equal(lotledger.M(800, "INR")) {
		t.Errorf("inconsistency = %+v, want WIPRO on line 6 expecting 800", inconsistency)
	}
	if res.Issues[1].Line != 8 {
		t.Errorf("issue = %v, want line 8", res.Issues[1])
	}
	if res.Skipped != 3 {
		t.Errorf("Import() skipped %d, want 3", res.Skipped)
	}
}

func TestImport_H7O1_Tolerance(t *testing.T) {
	export := "Assets O1 export\n1,20210405IST1130,INFY,14005.0005,1400.5,10\n"
	testCases := []struct {
		name      string
		tolerance float64
		issues    int
	}{
		{"default", config.DefaultTolerance, 0},
		{"exact", 0, 1},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Import.Tolerance = tc.tolerance
			res, err := New(cfg).Import(H7O1, strings.NewReader(export))
			if err != nil {
				t.Fatalf("Import() error = %v", err)
			}
			if len(res.Transactions) != 1 || len(res.Issues) != tc.issues {
				t.Errorf("Import() = %d transactions and issues %v, want 1 and %d issues", len(res.Transactions), res.Issues, tc.issues)
			}
		})
	}
}

func TestImport_Generic(t *testing.T) {
	export := `asset;date;price;quantity
# a comment
AAPL;2025-01-02;195.5;10
AAPL;2025-02-03 10:00:00;'1 200';-4
AAPL;not a date;1;1
AAPL;2025-02-04;1;0
`
	im := newTestImporter()
	im.Splitter.Delimiter = ';'
	res, err := im.Import(Generic, strings.NewReader(export))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	checkTransactions(t, res.Transactions, []want{
		{"AAPL", "2025-01-02", 195.5, 10},
		{"AAPL", "2025-02-03 10:00:00", 1200, -4},
	})
	if len(res.Issues) != 2 || res.Issues[0].Line != 5 || res.Issues[1].Line != 6 {
		t.Errorf("Import() issues = %v, want lines 5 and 6", res.Issues)
	}
	if !errors.Is(res.Issues[1], lotledger.ErrMalformed) {
		t.Errorf("issue = %v, want ErrMalformed", res.Issues[1])
	}
}

func TestImport_UnknownFormat(t *testing.T) {
	if _, err := newTestImporter().Import("ofx", strings.NewReader("")); err == nil {
		t.Errorf("Import() error = nil, want unknown format")
	}
}

func TestImportFunds(t *testing.T) {
	funds := `Time,Amount
20210401IST1000,"10,000"
20210501IST1000,-2500.50
bad,1

20210601IST1000,500
`
	f, err := newTestImporter().ImportFunds(strings.NewReader(funds))
	if err != nil {
		t.Fatalf("ImportFunds() error = %v", err)
	}
	if len(f.Entries) != 3 || len(f.Issues) != 1 || f.Issues[0].Line != 4 {
		t.Fatalf("ImportFunds() = %d entries, issues %v, want 3 entries and an issue on line 4", len(f.Entries), f.Issues)
	}
	if got, want := f.Total(), lotledger.M(7999.5, "INR"); !got.Equal(want) {
		t.Errorf("Total() = %v, want %v", got, want)
	}
	if f.Entries[0].Date != date.NewTime(2021, 4, 1, 10, 0, 0) {
		t.Errorf("first entry date = %v", f.Entries[0].Date)
	}
}
