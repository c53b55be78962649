// Package ledger owns the wallet balance and the append-only transaction log.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"rcvault/internal/audit"
	"rcvault/internal/kvstore"
	"rcvault/internal/platform/metrics"
	"rcvault/pkg/domain"
	domainerrors "rcvault/pkg/domain-errors"
)

// Top-up policy bounds, in rupees.
const (
	MinTopUp = 1
	MaxTopUp = 10000
)

// Service is the only component allowed to mutate the balance. The balance is
// a derived projection: reads fold the transaction log, so it can never
// diverge from it or go negative. The `balance` key is still written after
// each mutation to keep the persisted layout inspectable, but is never read
// back as truth.
type Service struct {
	mu        sync.Mutex
	log       *Log
	store     kvstore.Store
	logger    *slog.Logger
	metrics   *metrics.Metrics
	publisher audit.Publisher
	now       func() time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAuditPublisher(publisher audit.Publisher) Option {
	return func(s *Service) { s.publisher = publisher }
}

// WithClock overrides the transaction timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(store kvstore.Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("ledger store is required")
	}

	svc := &Service{
		log:   NewLog(store),
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Balance folds the transaction log. An empty log is a zero balance.
func (s *Service) Balance(ctx context.Context) (int64, error) {
	txns, err := s.log.All(ctx)
	if err != nil {
		return 0, domainerrors.Wrap(err, domainerrors.CodeStoreFailure, "could not read transaction log")
	}
	return fold(txns), nil
}

// TopUp credits the wallet and appends a topup transaction. Amounts outside
// [MinTopUp, MaxTopUp] fail with CodeInvalidAmount and change nothing.
func (s *Service) TopUp(ctx context.Context, amount int64) (int64, error) {
	if amount < MinTopUp || amount > MaxTopUp {
		return 0, domainerrors.Newf(domainerrors.CodeInvalidAmount,
			"top-up amount must be between ₹%d and ₹%d", MinTopUp, MaxTopUp)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	txns, err := s.log.All(ctx)
	if err != nil {
		return 0, domainerrors.Wrap(err, domainerrors.CodeStoreFailure, "could not read transaction log")
	}

	txn := Transaction{
		ID:        nextID(txns),
		Timestamp: s.now().UTC(),
		Kind:      KindTopUp,
		Amount:    amount,
	}
	if err := s.log.Append(ctx, txn); err != nil {
		return 0, domainerrors.Wrap(err, domainerrors.CodeStoreFailure, "could not record top-up")
	}

	balance := fold(txns) + amount
	s.writeProjection(ctx, balance)

	if s.metrics != nil {
		s.metrics.TopUpsTotal.Inc()
		s.metrics.BalanceRupees.Set(float64(balance))
	}
	audit.Log(ctx, s.logger, s.publisher, audit.Event{
		Action:  audit.ActionTopUp,
		Amount:  amount,
		Balance: balance,
	})
	return balance, nil
}

// Debit charges one billed lookup against the wallet and appends a debit
// transaction tagged with the identifier. Fails with CodeInsufficientBalance
// and changes nothing when the balance cannot cover the cost.
func (s *Service) Debit(ctx context.Context, cost int64, vehicleNumber domain.VehicleID) (int64, error) {
	if cost <= 0 {
		return 0, domainerrors.New(domainerrors.CodeBadRequest, "debit cost must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	txns, err := s.log.All(ctx)
	if err != nil {
		return 0, domainerrors.Wrap(err, domainerrors.CodeStoreFailure, "could not read transaction log")
	}

	balance := fold(txns)
	if balance < cost {
		return 0, domainerrors.Newf(domainerrors.CodeInsufficientBalance,
			"balance ₹%d cannot cover ₹%d lookup fee", balance, cost)
	}

	txn := Transaction{
		ID:            nextID(txns),
		Timestamp:     s.now().UTC(),
		Kind:          KindRCGeneration,
		Cost:          cost,
		VehicleNumber: vehicleNumber,
	}
	if err := s.log.Append(ctx, txn); err != nil {
		return 0, domainerrors.Wrap(err, domainerrors.CodeStoreFailure, "could not record debit")
	}

	balance -= cost
	s.writeProjection(ctx, balance)

	if s.metrics != nil {
		s.metrics.DebitsTotal.Inc()
		s.metrics.BalanceRupees.Set(float64(balance))
	}
	audit.Log(ctx, s.logger, s.publisher, audit.Event{
		Action:        audit.ActionBilledLookup,
		VehicleNumber: vehicleNumber,
		Cost:          cost,
		Balance:       balance,
	})
	return balance, nil
}

// History returns the log oldest-first as stored. Presentation layers may
// reverse for latest-first display; the ledger never reorders its own store.
func (s *Service) History(ctx context.Context) ([]Transaction, error) {
	txns, err := s.log.All(ctx)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeStoreFailure, "could not read transaction log")
	}
	return txns, nil
}

// Stats summarizes the log for the history view.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	txns, err := s.log.All(ctx)
	if err != nil {
		return Stats{}, domainerrors.Wrap(err, domainerrors.CodeStoreFailure, "could not read transaction log")
	}

	stats := Stats{TotalTransactions: len(txns)}
	for _, txn := range txns {
		switch txn.Kind {
		case KindTopUp:
			stats.TotalAdded += txn.Amount
		case KindRCGeneration:
			stats.TotalSpent += txn.Cost
			stats.LookupsBilled++
		}
	}
	return stats, nil
}

// writeProjection mirrors the derived balance under the `balance` key. The
// log is the source of truth, so a failed projection write cannot make state
// inconsistent; it is logged and the operation still succeeds.
func (s *Service) writeProjection(ctx context.Context, balance int64) {
	if err := s.store.Set(ctx, kvstore.KeyBalance, strconv.FormatInt(balance, 10)); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to write balance projection",
			"balance", balance, "error", err)
	}
}

func fold(txns []Transaction) int64 {
	var balance int64
	for _, txn := range txns {
		switch txn.Kind {
		case KindTopUp:
			balance += txn.Amount
		case KindRCGeneration:
			balance -= txn.Cost
		}
	}
	return balance
}

func nextID(txns []Transaction) int64 {
	if len(txns) == 0 {
		return 1
	}
	return txns[len(txns)-1].ID + 1
}
