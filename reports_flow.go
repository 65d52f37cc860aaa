package lotledger

import (
	"slices"
	"strings"
)

// AssetFlow sums the raw transactions of an asset, without lot matching.
type AssetFlow struct {
	Asset string    `json:"asset"`
	Buys  Aggregate `json:"buys"`
	Sells Aggregate `json:"sells"` // quantities and values are positive.
	Net   Money     `json:"net"`   // buy value minus sell value.
}

// Flow is the transaction level view of a list of transactions.
type Flow struct {
	Assets      []AssetFlow `json:"assets"`
	AssetCount  int         `json:"assetCount"`
	NetQuantity Quantity    `json:"netQuantity"`
	NetValue    Money       `json:"netValue"`
	Anomalies   []Anomaly   `json:"-"`
}

// SummarizeTransactions sums buys and sells per asset, in asset name order.
//
// The flow is in the currency of the first transaction. Transactions in
// another currency are left out and reported as an Inconsistency.
func SummarizeTransactions(txs []Transaction, filter Filter) *Flow {
	f := new(Flow)
	index := make(map[string]*AssetFlow)
	currency := ""
	for i, tx := range txs {
		if !filter.Match(tx.Asset) {
			continue
		}
		if currency == "" {
			currency = tx.Price.Currency()
		}
		if c := tx.Price.Currency(); c != "" && c != currency {
			f.Anomalies = append(f.Anomalies, &Inconsistency{
				Asset:    tx.Asset,
				Side:     "currency",
				Sum:      tx.Value(),
				Quantity: tx.Quantity,
				Want:     M(0, currency),
				Line:     i + 1,
			})
			continue
		}
		af, ok := index[tx.Asset]
		if !ok {
			af = &AssetFlow{Asset: tx.Asset}
			index[tx.Asset] = af
		}
		if tx.IsBuy() {
			af.Buys.add(tx.Quantity, tx.Value())
		} else {
			af.Sells.add(tx.Quantity.Abs(), tx.Value().Abs())
		}
		af.Net = af.Net.Add(tx.Value())
	}

	f.Assets = make([]AssetFlow, 0, len(index))
	for _, af := range index {
		f.Assets = append(f.Assets, *af)
	}
	slices.SortFunc(f.Assets, func(a, b AssetFlow) int { return strings.Compare(a.Asset, b.Asset) })

	for i := range f.Assets {
		af := &f.Assets[i]
		if a := af.Buys.average(af.Asset, "buy"); a != nil {
			f.Anomalies = append(f.Anomalies, a)
		}
		if a := af.Sells.average(af.Asset, "sell"); a != nil {
			f.Anomalies = append(f.Anomalies, a)
		}
		f.NetQuantity = f.NetQuantity.Add(af.Buys.Quantity).Sub(af.Sells.Quantity)
		f.NetValue = f.NetValue.Add(af.Net)
	}
	f.AssetCount = len(f.Assets)
	return f
}
