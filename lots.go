package lotledger

import (
	"encoding/json"
	"fmt"

	"github.com/etnz/lotledger/date"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Lot is one buy of an asset together with the sell fulfillment accumulated against it.
//
// SoldQty is always between zero and BuyQty. A lot with SoldQty == BuyQty is
// closed, a lot with SoldQty == 0 is untouched.
type Lot struct {
	ID    uuid.UUID
	Asset string

	BuyDate  date.Date
	BuyPrice Money
	BuyQty   Quantity

	SellDate  date.Date // date of the last sell applied, zero when none.
	SellPrice Money     // price of the last sell applied.
	SoldQty   Quantity
}

// newLot returns an untouched lot for a buy transaction.
func newLot(tx Transaction) *Lot {
	return &Lot{
		ID:       uuid.New(),
		Asset:    tx.Asset,
		BuyDate:  tx.Date,
		BuyPrice: tx.Price,
		BuyQty:   tx.Quantity.Abs(),
	}
}

// BuyValue returns BuyPrice × BuyQty.
func (l *Lot) BuyValue() Money { return l.BuyPrice.Mul(l.BuyQty) }

// SellValue returns SellPrice × SoldQty.
func (l *Lot) SellValue() Money { return l.SellPrice.Mul(l.SoldQty) }

// Available returns the quantity of the lot still unsold.
func (l *Lot) Available() Quantity { return l.BuyQty.Sub(l.SoldQty) }

// Open reports whether some quantity of the lot is still unsold.
func (l *Lot) Open() bool { return l.SoldQty.LessThan(l.BuyQty) }

// Closed reports whether the lot has been fully matched.
func (l *Lot) Closed() bool { return !l.Open() }

// Untouched reports whether nothing was sold against the lot.
func (l *Lot) Untouched() bool { return l.SoldQty.IsZero() }

// ProfitLoss returns SellValue - BuyValue when something was sold, zero otherwise.
func (l *Lot) ProfitLoss() Money {
	if l.Untouched() {
		return Money{cur: l.BuyPrice.cur}
	}
	return l.SellValue().Sub(l.BuyValue())
}

// Status returns "open", "partial" or "closed".
func (l *Lot) Status() string {
	switch {
	case l.Untouched():
		return "open"
	case l.Open():
		return "partial"
	default:
		return "closed"
	}
}

// sell records quantity as sold at the transaction price and date.
func (l *Lot) sell(tx Transaction, quantity Quantity) {
	l.SoldQty = l.SoldQty.Add(quantity)
	l.SellPrice = tx.Price
	l.SellDate = tx.Date
}

// check verifies the lot invariants.
func (l *Lot) check() error {
	if l.SoldQty.IsNegative() || l.SoldQty.GreaterThan(l.BuyQty) {
		return fmt.Errorf("lot %s of %s: sold quantity %s out of [0, %s]", l.ID, l.Asset, l.SoldQty, l.BuyQty)
	}
	return nil
}

func (l *Lot) String() string {
	return fmt.Sprintf("%s %s %s @ %s sold %s", l.BuyDate, l.Asset, l.BuyQty, l.BuyPrice, l.SoldQty)
}

func (l *Lot) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", l.ID)
	w.Append("asset", l.Asset)
	w.Append("buyDate", l.BuyDate)
	w.Append("buyPrice", l.BuyPrice.value)
	w.Append("buyQty", l.BuyQty)
	w.Append("buyValue", l.BuyValue().value)
	w.Optional("sellDate", l.SellDate)
	w.Optional("sellPrice", l.SellPrice.value)
	w.Optional("soldQty", l.SoldQty)
	w.Optional("sellValue", l.SellValue().value)
	w.Optional("currency", l.BuyPrice.cur)
	return w.MarshalJSON()
}

func (l *Lot) UnmarshalJSON(data []byte) error {
	var j struct {
		ID        uuid.UUID       `json:"id"`
		Asset     string          `json:"asset"`
		BuyDate   date.Date       `json:"buyDate"`
		BuyPrice  decimal.Decimal `json:"buyPrice"`
		BuyQty    Quantity        `json:"buyQty"`
		SellDate  date.Date       `json:"sellDate"`
		SellPrice decimal.Decimal `json:"sellPrice"`
		SoldQty   Quantity        `json:"soldQty"`
		Currency  string          `json:"currency"`
	}
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	*l = Lot{
		ID:        j.ID,
		Asset:     j.Asset,
		BuyDate:   j.BuyDate,
		BuyPrice:  M(j.BuyPrice, j.Currency),
		BuyQty:    j.BuyQty,
		SellDate:  j.SellDate,
		SellPrice: M(j.SellPrice, j.Currency),
		SoldQty:   j.SoldQty,
	}
	return l.check()
}
