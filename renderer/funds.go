package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/lotledger/csvimport"
)

func FundsMarkdown(f *csvimport.Funds) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Funds\n\n")
	fmt.Fprintln(&b, "| Date | Amount |")
	fmt.Fprintln(&b, "|:---|---:|")
	for _, e := range f.Entries {
		fmt.Fprintf(&b, "| %s | %s |\n", e.Date, e.Amount)
	}
	fmt.Fprintf(&b, "| **%s** | **%s** |\n", "Total", f.Total())
	b.WriteString("\n")
	b.WriteString(IssuesMarkdown(f.Issues))
	return b.String()
}
