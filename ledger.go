package lotledger

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"sort"
)

// Ledger is the sequence of all lots, in ascending buy date order.
//
// Lots for different assets are interleaved in the same sequence, lots with
// the same buy date keep their insertion order. Lots are never removed.
type Ledger struct {
	lots     []*Lot
	currency string // set by the first lot
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{lots: make([]*Lot, 0)}
}

// Len returns the number of lots.
func (l *Ledger) Len() int { return len(l.lots) }

// Currency returns the currency of the ledger prices, empty until the first lot.
func (l *Ledger) Currency() string { return l.currency }

// InsertBuyLot inserts lot before the first lot with a strictly later buy
// date, or at the end when there is none.
func (l *Ledger) InsertBuyLot(lot *Lot) error {
	if lot == nil {
		return fmt.Errorf("%w: nil lot", ErrMalformed)
	}
	if lot.BuyDate.IsZero() {
		return fmt.Errorf("%w: lot of %q has no buy date", ErrMalformed, lot.Asset)
	}
	if lot.Asset == "" {
		return fmt.Errorf("%w: lot on %s has no asset", ErrMalformed, lot.BuyDate)
	}
	if !lot.BuyQty.IsPositive() {
		return fmt.Errorf("%w: lot %s has a non positive quantity", ErrMalformed, lot)
	}
	if err := lot.check(); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if err := l.checkCurrency(lot.BuyPrice.Currency()); err != nil {
		return err
	}
	// lots are sorted, so the first strictly later one can be searched.
	i := sort.Search(len(l.lots), func(i int) bool {
		return l.lots[i].BuyDate.After(lot.BuyDate)
	})
	l.insertAt(i, lot)
	return nil
}

// insertAt inserts lot at index i without any check.
func (l *Ledger) insertAt(i int, lot *Lot) {
	l.lots = slices.Insert(l.lots, i, lot)
	if l.currency == "" {
		l.currency = lot.BuyPrice.Currency()
	}
}

var errCurrency = errors.New("currency mismatch")

func (l *Ledger) checkCurrency(cur string) error {
	if cur != "" && l.currency != "" && cur != l.currency {
		return fmt.Errorf("%w: %w: ledger is in %s, got %s", ErrMalformed, errCurrency, l.currency, cur)
	}
	return nil
}

// OpenLots returns, in ledger order, the lots of asset that are not fully
// matched, with their index in the ledger.
func (l *Ledger) OpenLots(asset string) iter.Seq2[int, *Lot] {
	return func(yield func(int, *Lot) bool) {
		for i, lot := range l.lots {
			if lot.Asset != asset || lot.Closed() {
				continue
			}
			if !yield(i, lot) {
				return
			}
		}
	}
}

// Lots returns, in ledger order, all the lots of asset.
func (l *Ledger) Lots(asset string) []*Lot {
	var lots []*Lot
	for _, lot := range l.lots {
		if lot.Asset == asset {
			lots = append(lots, lot)
		}
	}
	return lots
}

// All returns an iterator over every lot in ledger order, with its index.
func (l *Ledger) All() iter.Seq2[int, *Lot] { return slices.All(l.lots) }

// AssetNames returns the sorted set of asset names in the ledger.
func (l *Ledger) AssetNames() []string {
	set := make(map[string]struct{})
	names := make([]string, 0)
	for _, lot := range l.lots {
		if _, exists := set[lot.Asset]; exists {
			continue
		}
		set[lot.Asset] = struct{}{}
		names = append(names, lot.Asset)
	}
	slices.Sort(names)
	return names
}

// Check verifies that every lot satisfies its invariants and that the lots are in date order.
func (l *Ledger) Check() error {
	var errs error
	for i, lot := range l.lots {
		if err := lot.check(); err != nil {
			errs = errors.Join(errs, err)
		}
		if i > 0 && lot.BuyDate.Before(l.lots[i-1].BuyDate) {
			errs = errors.Join(errs, fmt.Errorf("lot %d (%s) is before lot %d (%s)", i, lot.BuyDate, i-1, l.lots[i-1].BuyDate))
		}
	}
	return errs
}
