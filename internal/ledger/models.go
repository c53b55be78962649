package ledger

import (
	"time"

	"rcvault/pkg/domain"
)

// Kind discriminates the two transaction types in the log.
type Kind string

const (
	// KindTopUp credits the wallet.
	KindTopUp Kind = "topup"
	// KindRCGeneration debits the wallet for one billed RC lookup.
	KindRCGeneration Kind = "rc_generation"
)

// Transaction is one immutable entry in the append-only log. IDs increase
// monotonically in append order; the log on disk is oldest-first.
//
// Amount is set only for top-ups; Cost and VehicleNumber only for debits.
type Transaction struct {
	ID            int64            `json:"id"`
	Timestamp     time.Time        `json:"timestamp"`
	Kind          Kind             `json:"type"`
	Amount        int64            `json:"amount,omitempty"`
	Cost          int64            `json:"cost,omitempty"`
	VehicleNumber domain.VehicleID `json:"vehicle_number,omitempty"`
}

// Stats summarizes the full transaction log.
type Stats struct {
	TotalTransactions int   `json:"total_transactions"`
	TotalSpent        int64 `json:"total_spent"`
	TotalAdded        int64 `json:"total_added"`
	LookupsBilled     int   `json:"lookups_billed"`
}
