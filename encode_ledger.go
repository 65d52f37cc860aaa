package lotledger

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/etnz/lotledger/date"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// This file contains the JSONL encoding of transactions and lots: one json
// object per line, with a stable field order so files stay diff friendly.

// jtransaction is the persisted form of a Transaction.
type jtransaction struct {
	Date     date.Date       `json:"date"`
	Asset    string          `json:"asset"`
	Price    decimal.Decimal `json:"price"`
	Quantity decimal.Decimal `json:"quantity"`
	Currency string          `json:"currency,omitempty"`
}

func (tx Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("date", tx.Date)
	w.Append("asset", tx.Asset)
	w.Append("price", tx.Price.value)
	w.Append("quantity", tx.Quantity)
	w.Optional("currency", tx.Price.cur)
	return w.MarshalJSON()
}

func (tx *Transaction) UnmarshalJSON(data []byte) error {
	var j jtransaction
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	*tx = Transaction{
		Asset:    j.Asset,
		Date:     j.Date,
		Price:    M(j.Price, j.Currency),
		Quantity: Q(j.Quantity),
	}
	return nil
}

// EncodeTransaction writes a single transaction as a json line.
func EncodeTransaction(w io.Writer, tx Transaction) error {
	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("cannot marshal transaction %v: %w", tx, err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("cannot write transaction: %w", err)
	}
	return nil
}

// EncodeTransactions writes transactions as json lines, in order.
func EncodeTransactions(w io.Writer, txs []Transaction) error {
	for _, tx := range txs {
		if err := EncodeTransaction(w, tx); err != nil {
			return err
		}
	}
	return nil
}

// DecodeTransactions reads json lines of transactions, in file order.
// Every transaction is validated.
func DecodeTransactions(r io.Reader) ([]Transaction, error) {
	var txs []Transaction
	err := scanLines(r, func(i int, line []byte) error {
		var tx Transaction
		if err := json.Unmarshal(line, &tx); err != nil {
			return fmt.Errorf("line %d: %w", i, err)
		}
		if err := tx.Validate(); err != nil {
			return fmt.Errorf("line %d: %w", i, err)
		}
		txs = append(txs, tx)
		return nil
	})
	return txs, err
}

// EncodeLots writes lots as json lines, in the given order.
func EncodeLots(w io.Writer, lots []*Lot) error {
	for _, lot := range lots {
		data, err := json.Marshal(lot)
		if err != nil {
			return fmt.Errorf("cannot marshal lot %v: %w", lot, err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("cannot write lot: %w", err)
		}
	}
	return nil
}

// DecodeLots reads a ledger from lots written by EncodeLots. The lot order is
// kept as is and must be a valid ledger order.
func DecodeLots(r io.Reader) (*Ledger, error) {
	l := NewLedger()
	err := scanLines(r, func(i int, line []byte) error {
		lot := new(Lot)
		if err := json.Unmarshal(line, lot); err != nil {
			return fmt.Errorf("line %d: %w", i, err)
		}
		if err := l.checkCurrency(lot.BuyPrice.Currency()); err != nil {
			return fmt.Errorf("line %d: %w", i, err)
		}
		l.insertAt(l.Len(), lot)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := l.Check(); err != nil {
		return nil, fmt.Errorf("invalid ledger: %w", err)
	}
	return l, nil
}

// scanLines calls f for each non blank line of r, with its 1-based line number.
func scanLines(r io.Reader, f func(int, []byte) error) error {
	scanner := bufio.NewScanner(r)
	i := 0
	for scanner.Scan() {
		i++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue // Skip empty lines
		}
		if err := f(i, line); err != nil {
			return err
		}
	}
	return scanner.Err()
}
