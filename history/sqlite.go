package history

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/etnz/lotledger"
	"github.com/etnz/lotledger/date"
	_ "modernc.org/sqlite"
)

// Amounts are stored as decimal text to stay exact.
const schema = `
CREATE TABLE IF NOT EXISTS transactions (
    seq      INTEGER PRIMARY KEY AUTOINCREMENT,
    date     TEXT NOT NULL,
    asset    TEXT NOT NULL,
    price    TEXT NOT NULL,
    quantity TEXT NOT NULL,
    currency TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_transactions_asset ON transactions(asset);
`

// SQLite stores transactions in a SQLite database (pure Go, no CGo).
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at path, ":memory:" is accepted.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history.NewSQLite: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // single writer, and keeps ":memory:" on one connection.
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history.NewSQLite: apply schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Append inserts the transactions in a single database transaction.
func (s *SQLite) Append(ctx context.Context, txs ...lotledger.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	dbtx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("history.SQLite: begin: %w", err)
	}
	defer dbtx.Rollback()

	stmt, err := dbtx.PrepareContext(ctx, `INSERT INTO transactions (date, asset, price, quantity, currency) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("history.SQLite: prepare: %w", err)
	}
	defer stmt.Close()

	for _, tx := range txs {
		_, err := stmt.ExecContext(ctx,
			tx.Date.Format(date.DatetimeFormat),
			tx.Asset,
			tx.Price.Decimal().String(),
			tx.Quantity.String(),
			tx.Price.Currency(),
		)
		if err != nil {
			return fmt.Errorf("history.SQLite: insert %v: %w", tx, err)
		}
	}
	if err := dbtx.Commit(); err != nil {
		return fmt.Errorf("history.SQLite: commit: %w", err)
	}
	return nil
}

func (s *SQLite) Load(ctx context.Context) ([]lotledger.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT seq, date, asset, price, quantity, currency FROM transactions ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("history.SQLite: query: %w", err)
	}
	defer rows.Close()

	var txs []lotledger.Transaction
	for rows.Next() {
		var seq int64
		var day, asset, price, quantity, currency string
		if err := rows.Scan(&seq, &day, &asset, &price, &quantity, &currency); err != nil {
			return nil, fmt.Errorf("history.SQLite: scan: %w", err)
		}
		tx, err := parseRow(day, asset, price, quantity, currency)
		if err != nil {
			return nil, fmt.Errorf("history.SQLite: row %d: %w", seq, err)
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

func parseRow(day, asset, price, quantity, currency string) (lotledger.Transaction, error) {
	on, err := date.Parse(day)
	if err != nil {
		return lotledger.Transaction{}, err
	}
	p, err := lotledger.ParseMoney(price, currency)
	if err != nil {
		return lotledger.Transaction{}, err
	}
	q, err := lotledger.ParseQuantity(quantity)
	if err != nil {
		return lotledger.Transaction{}, err
	}
	tx := lotledger.Transaction{Asset: asset, Date: on, Price: p, Quantity: q}
	return tx, tx.Validate()
}

func (s *SQLite) Close() error { return s.db.Close() }
