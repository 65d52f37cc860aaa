package lotledger

import (
	"slices"
)

// Filter restricts a report to a set of asset names. An empty filter accepts every asset.
type Filter map[string]struct{}

// NewFilter returns a filter accepting only names.
func NewFilter(names ...string) Filter {
	f := make(Filter, len(names))
	for _, n := range names {
		if n != "" {
			f[n] = struct{}{}
		}
	}
	return f
}

// Match reports whether asset passes the filter.
func (f Filter) Match(asset string) bool {
	if len(f) == 0 {
		return true
	}
	_, ok := f[asset]
	return ok
}

// Names returns the sorted names of the filter.
func (f Filter) Names() []string {
	names := make([]string, 0, len(f))
	for n := range f {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Aggregate is a quantity, its total value and the weighted average price.
type Aggregate struct {
	Quantity Quantity `json:"quantity"`
	Value    Money    `json:"value"`
	Average  Money    `json:"average"`
}

// add accumulates value for quantity.
func (a *Aggregate) add(q Quantity, v Money) {
	a.Quantity = a.Quantity.Add(q)
	a.Value = a.Value.Add(v)
}

// average computes the weighted average price of the aggregate.
//
// Without quantity the average is zero, and if there is a value anyway it is
// reported as an Inconsistency.
func (a *Aggregate) average(asset, side string) Anomaly {
	if a.Quantity.IsZero() {
		a.Average = Money{cur: a.Value.cur}
		if a.Value.IsZero() {
			return nil
		}
		return &Inconsistency{Asset: asset, Side: side, Sum: a.Value, Quantity: a.Quantity}
	}
	a.Average = a.Value.Div(a.Quantity)
	return nil
}

// AssetSummary reduces all the lots of an asset.
type AssetSummary struct {
	Asset    string    `json:"asset"`
	Held     Aggregate `json:"held"`     // untouched lots, still in hand.
	Bought   Aggregate `json:"bought"`   // buy side of every lot.
	Sold     Aggregate `json:"sold"`     // sell side of every lot.
	Realized Money     `json:"realized"` // profit or loss over lots with a sale.
	Lots     []*Lot    `json:"lots,omitempty"`
}

// Summary is the reduction of a ledger into per-asset and grand totals.
type Summary struct {
	Filter       []string       `json:"filter,omitempty"`
	Assets       []AssetSummary `json:"assets"`
	AssetCount   int            `json:"assetCount"`  // number of assets reported.
	HeldAssets   int            `json:"heldAssets"`  // number of assets with a quantity in hand.
	HeldQuantity Quantity       `json:"heldQuantity"`
	Invested     Money          `json:"invested"` // buy value of the quantity in hand.
	Realized     Money          `json:"realized"`
	Anomalies    []Anomaly      `json:"-"`
}

// SummarizeAsset reduces the lots of a single asset.
func SummarizeAsset(asset string, lots []*Lot) (AssetSummary, []Anomaly) {
	s := AssetSummary{Asset: asset}
	for _, lot := range lots {
		s.Bought.add(lot.BuyQty, lot.BuyValue())
		s.Sold.add(lot.SoldQty, lot.SellValue())
		if lot.Untouched() {
			s.Held.add(lot.BuyQty, lot.BuyValue())
		} else {
			s.Realized = s.Realized.Add(lot.ProfitLoss())
		}
	}
	var anomalies []Anomaly
	for _, side := range []struct {
		name string
		agg  *Aggregate
	}{{"held", &s.Held}, {"buy", &s.Bought}, {"sell", &s.Sold}} {
		if a := side.agg.average(asset, side.name); a != nil {
			anomalies = append(anomalies, a)
		}
	}
	return s, anomalies
}

// Summarize reduces the ledger lots of every asset accepted by filter.
// With details, each asset summary carries its lots.
//
// The ledger must not be mutated while summarizing.
func Summarize(l *Ledger, filter Filter, details bool) *Summary {
	zero := Money{cur: l.Currency()}
	s := &Summary{
		Filter:   filter.Names(),
		Assets:   make([]AssetSummary, 0),
		Invested: zero,
		Realized: zero,
	}
	for _, asset := range l.AssetNames() {
		if !filter.Match(asset) {
			continue
		}
		lots := l.Lots(asset)
		as, anomalies := SummarizeAsset(asset, lots)
		if details {
			as.Lots = lots
		}
		s.Anomalies = append(s.Anomalies, anomalies...)
		s.Assets = append(s.Assets, as)

		if as.Held.Quantity.IsPositive() {
			s.HeldAssets++
		}
		s.HeldQuantity = s.HeldQuantity.Add(as.Held.Quantity)
		s.Invested = s.Invested.Add(as.Held.Value)
		s.Realized = s.Realized.Add(as.Realized)
	}
	s.AssetCount = len(s.Assets)
	return s
}

// Asset returns the summary of an asset, if reported.
func (s *Summary) Asset(asset string) (AssetSummary, bool) {
	for _, as := range s.Assets {
		if as.Asset == asset {
			return as, true
		}
	}
	return AssetSummary{}, false
}
