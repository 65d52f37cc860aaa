package history

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/etnz/lotledger"
)

// JSONL stores transactions in a file, one json object per line.
type JSONL struct {
	path string
}

// NewJSONL returns a store on the file at path. The file is created on the first Append.
func NewJSONL(path string) *JSONL { return &JSONL{path: path} }

func (s *JSONL) Append(ctx context.Context, txs ...lotledger.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("history.JSONL: open %q: %w", s.path, err)
	}
	if err := lotledger.EncodeTransactions(f, txs); err != nil {
		f.Close()
		return fmt.Errorf("history.JSONL: append to %q: %w", s.path, err)
	}
	return f.Close()
}

// Load returns no transaction when the file does not exist yet.
func (s *JSONL) Load(ctx context.Context) ([]lotledger.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("history.JSONL: open %q: %w", s.path, err)
	}
	defer f.Close()

	txs, err := lotledger.DecodeTransactions(f)
	if err != nil {
		return nil, fmt.Errorf("history.JSONL: load %q: %w", s.path, err)
	}
	return txs, nil
}

func (s *JSONL) Close() error { return nil }
