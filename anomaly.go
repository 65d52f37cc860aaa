package lotledger

import (
	"errors"
	"fmt"
)

// Anomaly is a data inconsistency detected while ingesting or summarizing.
//
// Anomalies are errors so they can be joined and inspected with errors.As,
// but they are never fatal by themselves: the caller decides to halt or continue.
type Anomaly interface {
	error
	// Kind returns a short stable name for the anomaly type.
	Kind() string
}

// UncoveredSell is reported when a sell exceeds the quantity held in open lots.
//
// The matches applied before the shortfall was detected are kept.
type UncoveredSell struct {
	Tx        Transaction
	Unmatched Quantity // the part of the sell that no lot could cover, positive.
}

func (a *UncoveredSell) Kind() string { return "uncovered-sell" }
func (a *UncoveredSell) Error() string {
	return fmt.Sprintf("uncovered sell of %s: %s of %s not held", a.Tx.Asset, a.Unmatched, a.Tx.Quantity.Abs())
}

// Inconsistency is reported when a value cannot be reconciled with its
// quantity: an aggregate value without quantity, or a total that does not
// match price × quantity, or a value in another currency.
type Inconsistency struct {
	Asset    string
	Side     string // what was checked: "buy", "sell", "total" or "currency"
	Sum      Money
	Quantity Quantity
	Want     Money // expected value when known
	Line     int   // source line when known
}

func (a *Inconsistency) Kind() string { return "inconsistency" }
func (a *Inconsistency) Error() string {
	switch a.Side {
	case "total":
		return fmt.Sprintf("%s: total %s differs from price × quantity %s", a.Asset, a.Sum, a.Want)
	case "currency":
		return fmt.Sprintf("%s: value %s is not in %s", a.Asset, a.Sum, a.Want.Currency())
	}
	return fmt.Sprintf("%s: %s value %s without %s quantity (%s)", a.Asset, a.Side, a.Sum, a.Side, a.Quantity)
}

// check that anomalies are errors.
var _ Anomaly = (*UncoveredSell)(nil)
var _ Anomaly = (*Inconsistency)(nil)

// JoinAnomalies returns a single error for a list of anomalies, nil when empty.
func JoinAnomalies(anomalies []Anomaly) error {
	errs := make([]error, len(anomalies))
	for i, a := range anomalies {
		errs[i] = a
	}
	return errors.Join(errs...)
}
