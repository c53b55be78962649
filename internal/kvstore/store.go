// Package kvstore provides the durable string-keyed storage the ledger and
// record cache are built on. The store has no semantic knowledge of either;
// callers own key layout and sequencing of read-modify-write pairs.
package kvstore

import "context"

// Logical keys used by the callers of the store. Kept here so every backend
// and every test agrees on the persisted layout.
const (
	KeyBalance      = "balance"
	KeyTransactions = "transactions"
	KeyRCPrefix     = "rc_"
)

// Store is a durable, synchronous key-value store. Values round-trip
// byte-for-byte. A missing key is reported as sentinel.ErrNotFound; any other
// error means the read or write failed with prior state unchanged.
//
// Stores are interface-driven to keep the domain logic testable and to allow
// swapping in-memory, Redis, or Postgres persistence without rewiring
// business code.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
