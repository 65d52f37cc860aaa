// Package csvimport reads broker exports into normalized transactions.
//
// Each supported format knows how to find its columns and how to turn a
// record into a lotledger.Transaction. A bad record never stops an import: it
// is reported as an Issue with its line number, and the next record is read.
package csvimport

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/etnz/lotledger"
	"github.com/etnz/lotledger/config"
	"github.com/shopspring/decimal"
)

// Issue is a record that could not be imported as is.
type Issue struct {
	Line int
	Err  error
}

func (i Issue) Error() string { return fmt.Sprintf("line %d: %v", i.Line, i.Err) }
func (i Issue) Unwrap() error { return i.Err }

// Result is the outcome of an import.
type Result struct {
	Format       string
	Transactions []lotledger.Transaction
	Issues       []Issue
	Skipped      int // comment and blank records.
}

// Importer parses broker exports.
type Importer struct {
	Splitter  Splitter
	Symbols   SymbolMapper
	Tolerance decimal.Decimal // accepted gap between a displayed total and price × quantity.
	Currency  string
	log       *slog.Logger
}

// New returns an importer configured by cfg.
func New(cfg *config.Config) *Importer {
	delim, _ := firstRune(cfg.Import.Delimiter)
	return &Importer{
		Splitter: Splitter{Delimiter: delim, Protectors: cfg.Import.Protectors},
		Symbols: SymbolMapper{
			StripSuffixes: cfg.Import.Symbols.StripSuffixes,
			Map:           cfg.Import.Symbols.Map,
		},
		Tolerance: decimal.NewFromFloat(cfg.Import.Tolerance),
		Currency:  cfg.Currency,
		log:       slog.Default(),
	}
}

// WithLogger returns a copy of the importer logging to logger.
func (im *Importer) WithLogger(logger *slog.Logger) *Importer {
	c := *im
	c.log = logger
	return &c
}

func firstRune(s string) (rune, bool) {
	for _, r := range s {
		return r, true
	}
	return ',', false
}

// Formats returns the names of the supported formats.
func Formats() []string {
	names := make([]string, 0, len(formats))
	for name := range formats {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Import reads every record of r in the named format.
//
// The returned error is only about the input as a whole: an unknown format,
// an unreadable stream or a header without the required columns.
func (im *Importer) Import(name string, r io.Reader) (*Result, error) {
	f, ok := formats[name]
	if !ok {
		return nil, fmt.Errorf("unknown format %q, want one of %s", name, strings.Join(Formats(), ", "))
	}
	logger := im.logger().With("format", name)

	res := &Result{Format: name}
	var cols columns
	haveHeader := f.header == nil

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if line <= f.skip {
			continue
		}
		if !haveHeader {
			c, err := f.header(im.Splitter.Split(strings.ToUpper(text)))
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			cols, haveHeader = c, true
			continue
		}
		if strings.TrimSpace(text) == "" {
			res.Skipped++
			continue
		}

		tx, err := f.record(im, cols, im.Splitter.Split(text))
		if err != nil {
			var inconsistency *lotledger.Inconsistency
			if errors.As(err, &inconsistency) {
				inconsistency.Line = line
			}
			logger.Warn("record issue", "line", line, "error", err)
			res.Issues = append(res.Issues, Issue{Line: line, Err: err})
		}
		if tx == nil {
			if err == nil {
				res.Skipped++
			}
			continue
		}
		if err := tx.Validate(); err != nil {
			logger.Warn("invalid record", "line", line, "error", err)
			res.Issues = append(res.Issues, Issue{Line: line, Err: err})
			continue
		}
		res.Transactions = append(res.Transactions, *tx)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("cannot read %s export: %w", name, err)
	}
	if !haveHeader {
		return nil, fmt.Errorf("%s export has no header", name)
	}
	logger.Debug("imported", "transactions", len(res.Transactions), "issues", len(res.Issues), "skipped", res.Skipped)
	return res, nil
}

func (im *Importer) logger() *slog.Logger {
	if im.log == nil {
		return slog.Default()
	}
	return im.log
}
