package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/lotledger"
)

// LotsMarkdown renders lots in the given order, usually the ledger order.
func LotsMarkdown(lots []*lotledger.Lot) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Lots\n\n")
	fmt.Fprintln(&b, "| Asset | Buy Date | Quantity | Price | Value | Sell Date | Sold | Sell Price | Sell Value | P/L | Status |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|:---|---:|---:|---:|---:|:---|")
	for _, lot := range lots {
		sellDate, sellPrice, sellValue := "-", "-", "-"
		if !lot.Untouched() {
			sellDate, sellPrice, sellValue = lot.SellDate.String(), lot.SellPrice.String(), lot.SellValue().String()
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			cell(lot.Asset),
			lot.BuyDate,
			lot.BuyQty,
			lot.BuyPrice,
			lot.BuyValue(),
			sellDate,
			lot.SoldQty,
			sellPrice,
			sellValue,
			lot.ProfitLoss().SignedString(),
			lot.Status(),
		)
	}
	fmt.Fprintf(&b, "\n%d lots\n", len(lots))
	return b.String()
}
