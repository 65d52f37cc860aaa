// Package query evaluates read-only JSONPath expressions over the reports of
// a ledger.
//
// Queries never run code: an expression can only select values out of the
// JSON form of a named document.
package query

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/lotledger"
)

// Source holds what the documents are computed from.
type Source struct {
	Ledger       *lotledger.Ledger
	Transactions []lotledger.Transaction
}

var documents = map[string]func(Source) any{
	"summary": func(s Source) any { return lotledger.Summarize(s.Ledger, nil, true) },
	"lots": func(s Source) any {
		lots := make([]*lotledger.Lot, 0, s.Ledger.Len())
		for _, lot := range s.Ledger.All() {
			lots = append(lots, lot)
		}
		return lots
	},
	"flow":         func(s Source) any { return lotledger.SummarizeTransactions(s.Transactions, nil) },
	"transactions": func(s Source) any { return s.Transactions },
	"names":        func(s Source) any { return s.Ledger.AssetNames() },
}

// Names returns the names of the documents that can be queried.
func Names() []string {
	names := make([]string, 0, len(documents))
	for name := range documents {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Document returns the JSON form of the named document, as decoded by encoding/json.
func (s Source) Document(name string) (any, error) {
	build, ok := documents[name]
	if !ok {
		return nil, fmt.Errorf("unknown document %q, want one of %s", name, strings.Join(Names(), ", "))
	}
	data, err := json.Marshal(build(s))
	if err != nil {
		return nil, fmt.Errorf("cannot encode %s: %w", name, err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("cannot decode %s: %w", name, err)
	}
	return doc, nil
}

// Eval evaluates the JSONPath expression against doc.
func Eval(expr string, doc any) (any, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return doc, nil
	}
	v, err := jsonpath.Get(expr, doc)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", expr, err)
	}
	return v, nil
}

// Run evaluates expr against the named document of s.
func (s Source) Run(name, expr string) (any, error) {
	doc, err := s.Document(name)
	if err != nil {
		return nil, err
	}
	return Eval(expr, doc)
}

// Format returns v as indented JSON.
func Format(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
