// Package audit captures key wallet actions (top-ups, billed lookups) as
// events. Keep the event transport-agnostic so sinks can fan out: the Kafka
// publisher ships events off-process, the slog path keeps a local trail even
// when no broker is configured.
package audit

import (
	"context"
	"log/slog"
	"time"

	"rcvault/pkg/domain"
)

// Action names for wallet audit events.
const (
	ActionTopUp        = "wallet_topup"
	ActionBilledLookup = "rc_billed_lookup"
	ActionCacheHit     = "rc_cache_hit"
	ActionFetchFailed  = "rc_fetch_failed"
)

// Event is emitted from domain logic to capture key actions.
type Event struct {
	Timestamp     time.Time        `json:"timestamp"`
	Action        string           `json:"action"`
	VehicleNumber domain.VehicleID `json:"vehicle_number,omitempty"`
	Amount        int64            `json:"amount,omitempty"`
	Cost          int64            `json:"cost,omitempty"`
	Balance       int64            `json:"balance"`
	RequestID     string           `json:"request_id,omitempty"`
}

// Publisher ships audit events to a sink. Implementations must not block the
// calling operation beyond their own configured timeouts.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}

// Log records the event on the structured logger and, when a publisher is
// configured, emits it. Publisher failures are logged and swallowed: audit
// delivery must never fail a wallet operation.
func Log(ctx context.Context, logger *slog.Logger, publisher Publisher, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	if logger != nil {
		logger.InfoContext(ctx, event.Action,
			"log_type", "audit",
			"vehicle_number", event.VehicleNumber.String(),
			"amount", event.Amount,
			"cost", event.Cost,
			"balance", event.Balance,
			"request_id", event.RequestID,
		)
	}

	if publisher == nil {
		return
	}
	if err := publisher.Emit(ctx, event); err != nil && logger != nil {
		logger.WarnContext(ctx, "failed to emit audit event",
			"action", event.Action, "error", err)
	}
}
