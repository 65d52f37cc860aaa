package lotledger

import (
	"errors"
	"fmt"

	"github.com/etnz/lotledger/date"
)

// ErrMalformed is returned for transactions the ledger cannot accept.
var ErrMalformed = errors.New("malformed transaction")

// Transaction is one normalized buy or sell of an asset.
//
// The sign of the quantity tells the direction: positive is a buy, negative is a sell.
type Transaction struct {
	Asset    string
	Date     date.Date
	Price    Money // unit price
	Quantity Quantity
}

// NewTransaction is a convenient constructor for transactions in a given currency.
func NewTransaction(asset string, on date.Date, price, quantity float64, currency string) Transaction {
	return Transaction{
		Asset:    asset,
		Date:     on,
		Price:    M(price, currency),
		Quantity: Q(quantity),
	}
}

// IsBuy reports whether tx adds to the position.
func (tx Transaction) IsBuy() bool { return tx.Quantity.IsPositive() }

// IsSell reports whether tx reduces the position.
func (tx Transaction) IsSell() bool { return tx.Quantity.IsNegative() }

// Value returns price × quantity, negative for a sell.
func (tx Transaction) Value() Money { return tx.Price.Mul(tx.Quantity) }

// What returns "buy" or "sell".
func (tx Transaction) What() string {
	if tx.IsSell() {
		return "sell"
	}
	return "buy"
}

func (tx Transaction) String() string {
	return fmt.Sprintf("%s %s %s %s @ %s", tx.Date, tx.What(), tx.Quantity.Abs(), tx.Asset, tx.Price)
}

// Validate checks the transaction fields. Errors wrap ErrMalformed.
func (tx Transaction) Validate() error {
	var errs error
	if tx.Asset == "" {
		errs = errors.Join(errs, errors.New("missing asset"))
	}
	if tx.Date.IsZero() {
		errs = errors.Join(errs, errors.New("missing date"))
	}
	if tx.Quantity.IsZero() {
		errs = errors.Join(errs, errors.New("zero quantity"))
	}
	if tx.Price.IsNegative() {
		errs = errors.Join(errs, fmt.Errorf("negative price %s", tx.Price))
	}
	if errs != nil {
		return fmt.Errorf("%w %q: %w", ErrMalformed, tx.String(), errs)
	}
	return nil
}
