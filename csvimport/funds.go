package csvimport

import (
	"bufio"
	"fmt"
	"io"

	"github.com/etnz/lotledger"
	"github.com/etnz/lotledger/date"
)

// Fund is an amount of cash allotted to the assets at a date.
type Fund struct {
	Date   date.Date       `json:"date"`
	Amount lotledger.Money `json:"amount"`
}

// Funds is the content of a funds file.
type Funds struct {
	Entries []Fund  `json:"entries"`
	Issues  []Issue `json:"-"`
}

// Total returns the sum of all the amounts.
func (f *Funds) Total() lotledger.Money {
	var total lotledger.Money
	for _, e := range f.Entries {
		total = total.Add(e.Amount)
	}
	return total
}

// ImportFunds reads a funds file: a title line, then "time,amount" records
// with the time in the compact export layout.
func (im *Importer) ImportFunds(r io.Reader) (*Funds, error) {
	funds := &Funds{}
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		if line == 1 {
			continue
		}
		fields := im.Splitter.Split(sc.Text())
		if len(fields) == 1 && fields[0] == "" {
			continue
		}
		fund, err := im.fund(fields)
		if err != nil {
			im.logger().Warn("funds issue", "line", line, "error", err)
			funds.Issues = append(funds.Issues, Issue{Line: line, Err: err})
			continue
		}
		funds.Entries = append(funds.Entries, fund)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("cannot read funds: %w", err)
	}
	return funds, nil
}

func (im *Importer) fund(fields []string) (Fund, error) {
	if len(fields) != 2 {
		return Fund{}, fmt.Errorf("%d fields, want 2", len(fields))
	}
	on, err := date.Parse(fields[0], date.CompactFormat, date.DatetimeFormat, date.DateFormat)
	if err != nil {
		return Fund{}, err
	}
	amount, err := lotledger.ParseMoney(fields[1], im.Currency)
	if err != nil {
		return Fund{}, err
	}
	return Fund{Date: on, Amount: amount}, nil
}
