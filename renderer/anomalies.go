package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/lotledger"
	"github.com/etnz/lotledger/csvimport"
)

// AnomaliesMarkdown renders the anomalies section, or nothing when there is no anomaly.
func AnomaliesMarkdown(anomalies []lotledger.Anomaly) string {
	var b strings.Builder
	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "## Anomalies\n\n")
		fmt.Fprintln(w, "| Kind | Detail |")
		fmt.Fprintln(w, "|:---|:---|")
		for _, a := range anomalies {
			fmt.Fprintf(w, "| %s | %s |\n", a.Kind(), cell(a.Error()))
		}
		fmt.Fprintln(w)
		return len(anomalies) > 0
	})
	return b.String()
}

// IssuesMarkdown renders the records that could not be imported as is, or
// nothing when there is none.
func IssuesMarkdown(issues []csvimport.Issue) string {
	var b strings.Builder
	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "## Issues\n\n")
		fmt.Fprintln(w, "| Line | Issue |")
		fmt.Fprintln(w, "|---:|:---|")
		for _, i := range issues {
			fmt.Fprintf(w, "| %d | %s |\n", i.Line, cell(i.Err.Error()))
		}
		fmt.Fprintln(w)
		return len(issues) > 0
	})
	return b.String()
}

// ImportMarkdown renders the outcome of an import.
func ImportMarkdown(res *csvimport.Result, added int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Import %s\n\n", res.Format)
	fmt.Fprintf(&b, "- Transactions: %d\n", len(res.Transactions))
	fmt.Fprintf(&b, "- Added to history: %d\n", added)
	fmt.Fprintf(&b, "- Skipped records: %d\n", res.Skipped)
	fmt.Fprintf(&b, "- Issues: %d\n\n", len(res.Issues))
	b.WriteString(IssuesMarkdown(res.Issues))
	return b.String()
}
