package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/lotledger"
)

// FlowMarkdown renders the transaction level sums of each asset.
func FlowMarkdown(f *lotledger.Flow) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Transactions\n\n")
	fmt.Fprintln(&b, "| Asset | Bought | Avg Buy | Buy Value | Sold | Avg Sell | Sell Value | Net |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|---:|---:|")
	for _, af := range f.Assets {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			cell(af.Asset),
			af.Buys.Quantity,
			af.Buys.Average,
			af.Buys.Value,
			af.Sells.Quantity,
			af.Sells.Average,
			af.Sells.Value,
			af.Net,
		)
	}
	fmt.Fprintf(&b, "| **Total** | | | | | | | **%s** |\n", f.NetValue)

	fmt.Fprintf(&b, "\n%d assets, net quantity %s\n", f.AssetCount, f.NetQuantity)
	return b.String()
}
