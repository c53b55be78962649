package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and infrastructure layers
// return these (optionally wrapped) so services can translate them into
// domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entry does not exist in the store
// - ErrAlreadyCached: an RC record already exists for the identifier; the
//   write was a no-op and nothing changed (benign, never user-facing)
//
// For validation errors (bad input, policy violations), use
// pkg/domain-errors directly.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyCached = errors.New("already cached")
)
