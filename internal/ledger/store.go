package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"rcvault/internal/kvstore"
	"rcvault/pkg/platform/sentinel"
)

// Log persists the transaction sequence as one JSON-encoded list under the
// `transactions` key. The store offers no native locking, so callers must
// sequence Append with respect to their own reads (the Service holds its
// mutex across every read-modify-write pair).
type Log struct {
	store kvstore.Store
}

func NewLog(store kvstore.Store) *Log {
	return &Log{store: store}
}

// All returns every transaction, oldest-first as stored. An absent key is an
// empty log, not an error.
func (l *Log) All(ctx context.Context) ([]Transaction, error) {
	raw, err := l.store.Get(ctx, kvstore.KeyTransactions)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read transaction log: %w", err)
	}

	var txns []Transaction
	if err := json.Unmarshal([]byte(raw), &txns); err != nil {
		return nil, fmt.Errorf("decode transaction log: %w", err)
	}
	return txns, nil
}

// Append writes the log back with txn added at the end. The single Set is the
// commit point: if it fails, the previous log remains intact.
func (l *Log) Append(ctx context.Context, txn Transaction) error {
	txns, err := l.All(ctx)
	if err != nil {
		return err
	}
	txns = append(txns, txn)

	encoded, err := json.Marshal(txns)
	if err != nil {
		return fmt.Errorf("encode transaction log: %w", err)
	}
	if err := l.store.Set(ctx, kvstore.KeyTransactions, string(encoded)); err != nil {
		return fmt.Errorf("append transaction: %w", err)
	}
	return nil
}
