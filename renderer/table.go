package renderer

import (
	"fmt"
	"io"

	"github.com/etnz/lotledger"
	"github.com/olekukonko/tablewriter"
)

// SummaryTable writes the summary as a plain text table, one row per asset
// and a footer with the grand totals.
func SummaryTable(w io.Writer, s *lotledger.Summary) error {
	table := tablewriter.NewWriter(w)
	table.Header("Asset", "Held", "Invested", "Avg Held", "Bought", "Avg Buy", "Sold", "Avg Sell", "Realized")
	for _, as := range s.Assets {
		err := table.Append(
			as.Asset,
			as.Held.Quantity.String(),
			as.Held.Value.String(),
			as.Held.Average.String(),
			as.Bought.Quantity.String(),
			as.Bought.Average.String(),
			as.Sold.Quantity.String(),
			as.Sold.Average.String(),
			as.Realized.SignedString(),
		)
		if err != nil {
			return fmt.Errorf("cannot append %s: %w", as.Asset, err)
		}
	}
	table.Footer(
		fmt.Sprintf("%d assets", s.AssetCount),
		s.HeldQuantity.String(),
		s.Invested.String(),
		"", "", "", "", "",
		s.Realized.SignedString(),
	)
	return table.Render()
}

// LotsTable writes lots as a plain text table.
func LotsTable(w io.Writer, lots []*lotledger.Lot) error {
	table := tablewriter.NewWriter(w)
	table.Header("Asset", "Buy Date", "Quantity", "Price", "Sell Date", "Sold", "Sell Price", "P/L", "Status")
	for _, lot := range lots {
		sellDate, sellPrice := "-", "-"
		if !lot.Untouched() {
			sellDate, sellPrice = lot.SellDate.String(), lot.SellPrice.String()
		}
		err := table.Append(
			lot.Asset,
			lot.BuyDate.String(),
			lot.BuyQty.String(),
			lot.BuyPrice.String(),
			sellDate,
			lot.SoldQty.String(),
			sellPrice,
			lot.ProfitLoss().SignedString(),
			lot.Status(),
		)
		if err != nil {
			return fmt.Errorf("cannot append lot %s: %w", lot.ID, err)
		}
	}
	return table.Render()
}
