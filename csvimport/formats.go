package csvimport

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/etnz/lotledger"
	"github.com/etnz/lotledger/date"
)

// Supported formats.
const (
	// KiteTrades is the trade book export of Zerodha Kite, with a header row.
	KiteTrades = "kite-trades"
	// H7O1 is the spreadsheet export with a title line and the columns
	// id, date, symbol, total, price and quantity.
	H7O1 = "h7-o1"
	// Generic is any export with a header naming the asset, date, price and quantity columns.
	Generic = "generic"
)

// format describes how to read one kind of export.
//
// record returns a nil transaction and a nil error to skip a record. It may
// return both a transaction and an error when the record is imported with a
// reported inconsistency.
type format struct {
	skip   int
	header func(fields []string) (columns, error)
	record func(im *Importer, cols columns, fields []string) (*lotledger.Transaction, error)
}

var formats = map[string]format{
	KiteTrades: {header: kiteHeader, record: kiteTrade},
	H7O1:       {skip: 1, record: h7Record},
	Generic:    {header: genericHeader, record: genericRecord},
}

// columns maps a field role to its index in a record.
type columns map[string]int

func (c columns) require(roles ...string) error {
	var missing []string
	for _, role := range roles {
		if _, ok := c[role]; !ok {
			missing = append(missing, role)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("header has no %s column", strings.Join(missing, ", "))
	}
	return nil
}

// width is the minimum number of fields of a record.
func (c columns) width() int {
	w := 0
	for _, i := range c {
		w = max(w, i+1)
	}
	return w
}

// field returns the trimmed field of role.
func (c columns) field(fields []string, role string) string {
	return strings.TrimSpace(fields[c[role]])
}

func kiteHeader(fields []string) (columns, error) {
	cols := make(columns)
	for i, f := range fields {
		f = strings.TrimSpace(f)
		switch {
		case strings.HasPrefix(f, "QTY"):
			cols["qty"] = i
		case strings.HasPrefix(f, "INSTRUMENT"):
			cols["asset"] = i
		case strings.HasPrefix(f, "TYPE"):
			cols["type"] = i
		case strings.Contains(f, "PRICE"):
			cols["price"] = i
		case strings.Contains(f, "TIME"):
			cols["date"] = i
		}
	}
	return cols, cols.require("date", "type", "asset", "qty", "price")
}

func kiteTrade(im *Importer, cols columns, fields []string) (*lotledger.Transaction, error) {
	if len(fields) < cols.width() {
		return nil, fmt.Errorf("%d fields, want %d", len(fields), cols.width())
	}
	on, err := date.Parse(cols.field(fields, "date"), date.DatetimeFormat, time.RFC3339)
	if err != nil {
		return nil, err
	}
	qty, err := lotledger.ParseQuantity(cols.field(fields, "qty"))
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(cols.field(fields, "type"), "BUY") {
		qty = qty.Neg()
	}
	price, err := lotledger.ParseMoney(cols.field(fields, "price"), im.Currency)
	if err != nil {
		return nil, err
	}
	return &lotledger.Transaction{
		Asset:    im.Symbols.Normalize(cols.field(fields, "asset")),
		Date:     on,
		Price:    price,
		Quantity: qty,
	}, nil
}

// h7Record skips title, comment and junk rows: the date must start with a digit
// and symbols starting with '#' are comments.
func h7Record(im *Importer, _ columns, fields []string) (*lotledger.Transaction, error) {
	if len(fields) < 4 || len(fields[1]) < 8 || fields[1][0] < '0' || fields[1][0] > '9' {
		return nil, nil
	}
	if strings.HasPrefix(strings.TrimSpace(fields[2]), "#") {
		return nil, nil
	}
	if len(fields) < 6 {
		return nil, fmt.Errorf("%d fields, want 6", len(fields))
	}
	on, err := date.Parse(fields[1], date.CompactFormat)
	if err != nil {
		return nil, err
	}
	total, err := lotledger.ParseMoney(fields[3], im.Currency)
	if err != nil {
		return nil, err
	}
	price, err := lotledger.ParseMoney(fields[4], im.Currency)
	if err != nil {
		return nil, err
	}
	qty, err := lotledger.ParseQuantity(fields[5])
	if err != nil {
		return nil, err
	}
	tx := &lotledger.Transaction{
		Asset:    im.Symbols.Normalize(fields[2]),
		Date:     on,
		Price:    price,
		Quantity: qty,
	}
	if want := tx.Value(); total.Sub(want).Abs().Decimal().GreaterThan(im.Tolerance) {
		return tx, &lotledger.Inconsistency{Asset: tx.Asset, Side: "total", Sum: total, Quantity: qty, Want: want}
	}
	return tx, nil
}

var genericNames = map[string][]string{
	"asset": {"ASSET", "SYMBOL", "INSTRUMENT", "NAME"},
	"date":  {"DATE", "TIME", "DATETIME"},
	"price": {"PRICE", "UNIT PRICE"},
	"qty":   {"QTY", "QTY.", "QUANTITY"},
}

func genericHeader(fields []string) (columns, error) {
	cols := make(columns)
	for i, f := range fields {
		f = strings.TrimSpace(f)
		for role, names := range genericNames {
			if slices.Contains(names, f) {
				cols[role] = i
			}
		}
	}
	return cols, cols.require("asset", "date", "price", "qty")
}

func genericRecord(im *Importer, cols columns, fields []string) (*lotledger.Transaction, error) {
	if len(fields) > 0 && strings.HasPrefix(strings.TrimSpace(fields[0]), "#") {
		return nil, nil
	}
	if len(fields) < cols.width() {
		return nil, fmt.Errorf("%d fields, want %d", len(fields), cols.width())
	}
	on, err := date.Parse(cols.field(fields, "date"))
	if err != nil {
		return nil, err
	}
	price, err := lotledger.ParseMoney(cols.field(fields, "price"), im.Currency)
	if err != nil {
		return nil, err
	}
	qty, err := lotledger.ParseQuantity(cols.field(fields, "qty"))
	if err != nil {
		return nil, err
	}
	return &lotledger.Transaction{
		Asset:    im.Symbols.Normalize(cols.field(fields, "asset")),
		Date:     on,
		Price:    price,
		Quantity: qty,
	}, nil
}
