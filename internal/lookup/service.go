// Package lookup coordinates the cache-or-fetch decision and the associated
// billing side effect. It is the only path in the system that invokes
// Cache.Store and Ledger.Debit together; nothing else bills the user.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"rcvault/internal/audit"
	"rcvault/internal/platform/metrics"
	"rcvault/internal/rccache"
	"rcvault/pkg/domain"
	domainerrors "rcvault/pkg/domain-errors"
	"rcvault/pkg/platform/sentinel"
)

// Cache is the idempotent record store consulted before any billed fetch.
type Cache interface {
	Lookup(ctx context.Context, id domain.VehicleID) (*rccache.Record, error)
	Store(ctx context.Context, id domain.VehicleID, record *rccache.Record) error
}

// Ledger covers the balance operations the orchestrator needs.
type Ledger interface {
	Balance(ctx context.Context) (int64, error)
	Debit(ctx context.Context, cost int64, vehicleNumber domain.VehicleID) (int64, error)
}

// Fetcher is the external RC lookup collaborator.
type Fetcher interface {
	FetchRC(ctx context.Context, id domain.VehicleID) (*rccache.Record, error)
}

// Result is a resolved lookup. Cached reports whether the record came from
// the cache (no charge) rather than a fresh billed fetch.
type Result struct {
	ID     domain.VehicleID
	Record *rccache.Record
	Cached bool
}

type Service struct {
	cache     Cache
	ledger    Ledger
	fetcher   Fetcher
	logger    *slog.Logger
	metrics   *metrics.Metrics
	publisher audit.Publisher
	tracer    trace.Tracer

	// flights collapses concurrent submissions of the same identifier into a
	// single billed fetch, so a double-submitted lookup can never bill twice.
	flights singleflight.Group
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

func New(cache Cache, ledger Ledger, fetcher Fetcher, opts ...Option) (*Service, error) {
	if cache == nil {
		return nil, fmt.Errorf("record cache is required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("ledger is required")
	}
	if fetcher == nil {
		return nil, fmt.Errorf("fetcher is required")
	}

	svc := &Service{
		cache:   cache,
		ledger:  ledger,
		fetcher: fetcher,
		tracer:  otel.Tracer("rcvault/lookup"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Resolve normalizes the raw identifier and returns its RC record, charging
// cost only when the record is not yet cached. A failed fetch mutates
// nothing; a cache hit charges nothing.
func (s *Service) Resolve(ctx context.Context, rawIdentifier string, cost int64) (*Result, error) {
	id, err := domain.ParseVehicleID(rawIdentifier)
	if err != nil {
		s.countOutcome(metrics.OutcomeInvalid)
		return nil, err
	}

	record, err := s.cache.Lookup(ctx, id)
	if err == nil {
		s.countOutcome(metrics.OutcomeCacheHit)
		audit.Log(ctx, s.logger, s.publisher, audit.Event{
			Action:        audit.ActionCacheHit,
			VehicleNumber: id,
		})
		return &Result{ID: id, Record: record, Cached: true}, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		s.countOutcome(metrics.OutcomeFetchFailed)
		return nil, domainerrors.Wrap(err, domainerrors.CodeStoreFailure, "could not read record cache")
	}

	value, err, _ := s.flights.Do(id.String(), func() (any, error) {
		return s.resolveBilled(ctx, id, cost)
	})
	if err != nil {
		return nil, err
	}
	return value.(*Result), nil
}

// resolveBilled runs the miss path: balance check, fetch, cache store, debit.
// Store-then-debit ordering means an interruption between the two writes
// leaves a cached-but-unbilled record, never a billed-but-uncached one.
func (s *Service) resolveBilled(ctx context.Context, id domain.VehicleID, cost int64) (*Result, error) {
	ctx, span := s.tracer.Start(ctx, "lookup.billed_fetch",
		trace.WithAttributes(attribute.String("vehicle_number", id.String())))
	defer span.End()

	// Waiters that joined this flight after a previous one completed, or
	// double submissions racing the fast path, must still see the cache.
	if record, err := s.cache.Lookup(ctx, id); err == nil {
		s.countOutcome(metrics.OutcomeCacheHit)
		return &Result{ID: id, Record: record, Cached: true}, nil
	}

	balance, err := s.ledger.Balance(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "balance read failed")
		return nil, err
	}
	if balance < cost {
		s.countOutcome(metrics.OutcomeInsufficient)
		return nil, domainerrors.Newf(domainerrors.CodeInsufficientBalance,
			"balance ₹%d cannot cover ₹%d lookup fee", balance, cost)
	}

	start := time.Now()
	record, err := s.fetcher.FetchRC(ctx, id)
	if s.metrics != nil {
		s.metrics.FetchDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}
	if err != nil {
		s.countOutcome(metrics.OutcomeFetchFailed)
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		if s.logger != nil {
			s.logger.WarnContext(ctx, "RC fetch failed",
				"vehicle_number", id.String(), "error", err)
		}
		audit.Log(ctx, s.logger, s.publisher, audit.Event{
			Action:        audit.ActionFetchFailed,
			VehicleNumber: id,
			Balance:       balance,
		})
		return nil, err
	}

	if err := s.cache.Store(ctx, id, record); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyCached) {
			// Another writer cached this identifier first; it was billed
			// then, so this submission is served free.
			s.countOutcome(metrics.OutcomeCacheHit)
			return &Result{ID: id, Record: record, Cached: true}, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "cache store failed")
		return nil, domainerrors.Wrap(err, domainerrors.CodeStoreFailure, "could not cache RC record")
	}

	if _, err := s.ledger.Debit(ctx, cost, id); err != nil {
		// The record is cached but unbilled. That is the deliberate
		// partial-failure outcome: it favors the user and keeps the log and
		// balance mutually consistent.
		span.RecordError(err)
		span.SetStatus(codes.Error, "debit failed")
		if s.logger != nil {
			s.logger.ErrorContext(ctx, "debit failed after caching record",
				"vehicle_number", id.String(), "error", err)
		}
		return nil, err
	}

	s.countOutcome(metrics.OutcomeBilled)
	return &Result{ID: id, Record: record, Cached: false}, nil
}

func (s *Service) countOutcome(outcome string) {
	if s.metrics != nil {
		s.metrics.LookupsTotal.WithLabelValues(outcome).Inc()
	}
}
