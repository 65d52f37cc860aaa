package lotledger

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Policy tells IngestAll what to do when a transaction raises an anomaly.
type Policy int

const (
	// Continue records the anomaly and goes on with the next transaction.
	Continue Policy = iota
	// Halt stops at the first anomaly.
	Halt
)

// ErrHalted is returned by IngestAll when the Halt policy stopped the ingestion.
var ErrHalted = errors.New("ingestion halted")

// Engine applies transactions to a Ledger: buys become new lots, sells are
// matched against the oldest open lots of the same asset.
//
// The engine has no state of its own, and it must not be used concurrently
// with readers of the same ledger.
type Engine struct {
	ledger *Ledger
	log    *slog.Logger
}

// NewEngine returns an engine mutating l.
func NewEngine(l *Ledger) *Engine {
	return &Engine{ledger: l, log: slog.Default()}
}

// WithLogger returns a copy of the engine logging to logger.
func (e *Engine) WithLogger(logger *slog.Logger) *Engine {
	c := *e
	c.log = logger
	return &c
}

// Ledger returns the ledger mutated by the engine.
func (e *Engine) Ledger() *Ledger { return e.ledger }

// Ingest applies one transaction.
//
// It returns an error wrapping ErrMalformed for invalid transactions, and an
// *UncoveredSell when a sell exceeds the open quantity of its asset.
func (e *Engine) Ingest(tx Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	if err := e.ledger.checkCurrency(tx.Price.Currency()); err != nil {
		return err
	}

	// A ledger always starts from a position.
	if e.ledger.Len() == 0 {
		if tx.IsSell() {
			e.log.Warn("first transaction is a sell, recorded as the initial position", "asset", tx.Asset, "date", tx.Date, "quantity", tx.Quantity)
		}
		return e.ledger.InsertBuyLot(newLot(tx))
	}

	if tx.IsBuy() {
		return e.ledger.InsertBuyLot(newLot(tx))
	}
	return e.matchSell(tx)
}

// matchSell consumes the sell quantity from the open lots of the asset, oldest first.
func (e *Engine) matchSell(tx Transaction) error {
	remaining := tx.Quantity.Abs()

	// The ledger is only modified by a split, which ends the loop.
	for i, lot := range e.ledger.OpenLots(tx.Asset) {
		avail := lot.Available()
		delta := avail.Sub(remaining)
		switch delta.Sign() {
		case 0:
			lot.sell(tx, remaining)
			return nil

		case -1:
			// this lot is not enough, close it and continue with the next one.
			lot.sell(tx, avail)
			remaining = delta.Neg()

		default:
			// Split: the lot keeps the matched quantity and gets closed, the
			// unmatched buy quantity goes to a new lot at the same position.
			residual := &Lot{
				ID:       uuid.New(),
				Asset:    lot.Asset,
				BuyDate:  lot.BuyDate,
				BuyPrice: lot.BuyPrice,
				BuyQty:   delta,
			}
			lot.BuyQty = lot.SoldQty.Add(remaining)
			lot.sell(tx, remaining)
			e.ledger.insertAt(i, residual)
			e.log.Debug("lot split", "asset", lot.Asset, "buyDate", lot.BuyDate, "matched", lot.BuyQty, "residual", residual.BuyQty)
			return nil
		}
	}

	anomaly := &UncoveredSell{Tx: tx, Unmatched: remaining}
	e.log.Warn("uncovered sell", "asset", tx.Asset, "date", tx.Date, "quantity", tx.Quantity.Abs(), "unmatched", remaining)
	return anomaly
}

// IngestAll applies transactions in order and collects the anomalies.
//
// A malformed transaction always stops the ingestion with an error. With
// the Halt policy the first anomaly stops it too, and the error wraps both
// ErrHalted and the anomaly.
func (e *Engine) IngestAll(txs []Transaction, policy Policy) ([]Anomaly, error) {
	var anomalies []Anomaly
	for i, tx := range txs {
		err := e.Ingest(tx)
		if err == nil {
			continue
		}
		var a Anomaly
		if !errors.As(err, &a) {
			return anomalies, fmt.Errorf("transaction #%d: %w", i+1, err)
		}
		anomalies = append(anomalies, a)
		if policy == Halt {
			return anomalies, fmt.Errorf("%w at transaction #%d: %w", ErrHalted, i+1, a)
		}
	}
	return anomalies, nil
}

// Ingest builds a new ledger from transactions, continuing past anomalies.
func Ingest(txs ...Transaction) (*Ledger, []Anomaly, error) {
	l := NewLedger()
	anomalies, err := NewEngine(l).IngestAll(txs, Continue)
	return l, anomalies, err
}
