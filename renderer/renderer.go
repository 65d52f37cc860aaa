// Package renderer turns the ledger reports into markdown documents and plain
// text tables.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/lotledger"
)

//go:embed templates/*.md
var templates embed.FS

// SummaryRenderOptions holds configuration for rendering a summary report.
type SummaryRenderOptions struct {
	SkipTotals bool // Do not render the grand totals section.
}

// summaryView is the data of the summary templates.
type summaryView struct {
	*lotledger.Summary
	Details bool
}

// SummaryMarkdown renders the Summary to a markdown string. Lots are rendered
// per asset when the summary was computed with details.
func SummaryMarkdown(s *lotledger.Summary, opts SummaryRenderOptions) string {
	partials := map[string]string{
		"summary_title":  "summary_title.md",
		"summary_assets": "summary_assets.md",
		"summary_lots":   "summary_lots.md",
	}
	// An empty file name results in an empty template.
	if !opts.SkipTotals {
		partials["summary_totals"] = "summary_totals.md"
	} else {
		partials["summary_totals"] = ""
	}

	details := false
	for _, as := range s.Assets {
		if len(as.Lots) > 0 {
			details = true
			break
		}
	}
	return renderTemplate("summary", "summary.md", partials, summaryView{Summary: s, Details: details})
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		if file != "" {
			var readErr error
			content, readErr = fs.ReadFile(templates, "templates/"+file)
			if readErr != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, readErr)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
