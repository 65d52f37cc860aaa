// Package history persists the transactions ingested by the tool, so that the
// ledger can be rebuilt from them at any time.
package history

import (
	"context"
	"fmt"
	"slices"

	"github.com/etnz/lotledger"
	"github.com/etnz/lotledger/config"
)

// Store is an append only log of transactions.
type Store interface {
	// Append adds transactions at the end of the log.
	Append(ctx context.Context, txs ...lotledger.Transaction) error
	// Load returns every transaction in append order.
	Load(ctx context.Context) ([]lotledger.Transaction, error)
	Close() error
}

// Open returns the store described by cfg.
func Open(cfg config.History) (Store, error) {
	switch cfg.Backend {
	case config.BackendJSONL, "":
		return NewJSONL(cfg.Path), nil
	case config.BackendSQLite:
		return NewSQLite(cfg.Path)
	default:
		return nil, fmt.Errorf("history.Open: unknown backend %q", cfg.Backend)
	}
}

// Ledger loads every transaction of the store and ingests them in a new ledger.
func Ledger(ctx context.Context, s Store, policy lotledger.Policy) (*lotledger.Ledger, []lotledger.Anomaly, error) {
	txs, err := s.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	ledger := lotledger.NewLedger()
	anomalies, err := lotledger.NewEngine(ledger).IngestAll(txs, policy)
	return ledger, anomalies, err
}

// CheckCurrency returns an error wrapping lotledger.ErrMalformed if one of txs
// is not in the currency of the transactions already in the store.
func CheckCurrency(ctx context.Context, s Store, txs []lotledger.Transaction) error {
	stored, err := s.Load(ctx)
	if err != nil {
		return err
	}
	currency := ""
	for _, tx := range slices.Concat(stored, txs) {
		c := tx.Price.Currency()
		switch {
		case c == "":
		case currency == "":
			currency = c
		case c != currency:
			return fmt.Errorf("%w: %s transaction of %s on %s in %s, history is in %s", lotledger.ErrMalformed, tx.Asset, tx.Quantity, tx.Date, c, currency)
		}
	}
	return nil
}
