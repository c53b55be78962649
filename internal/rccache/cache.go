// Package rccache maps a canonical vehicle identifier to the RC record a
// billed lookup fetched for it. Entries are first-write-wins and never
// expire: once a record is cached it is ground truth for that identifier and
// must never be re-fetched or re-billed.
package rccache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"rcvault/internal/kvstore"
	"rcvault/pkg/domain"
	"rcvault/pkg/platform/sentinel"
)

// Record is the RC payload as returned by the upstream. Every field is
// optional; the upstream is untrusted and renderers substitute placeholders
// for whatever is absent.
type Record struct {
	VehicleNumber      string `json:"vehicle_number,omitempty"`
	OwnerName          string `json:"owner_name,omitempty"`
	VehicleClass       string `json:"vehicle_class,omitempty"`
	FuelType           string `json:"fuel_type,omitempty"`
	ChassisNumber      string `json:"chassis_number,omitempty"`
	EngineNumber       string `json:"engine_number,omitempty"`
	Manufacturer       string `json:"manufacturer,omitempty"`
	Model              string `json:"model,omitempty"`
	RegistrationDate   string `json:"registration_date,omitempty"`
	InsuranceValidTill string `json:"insurance_valid_till,omitempty"`
	RTOOffice          string `json:"rto_office,omitempty"`
	OwnerAddress       string `json:"owner_address,omitempty"`
}

// Cache stores one record per identifier under `rc_<identifier>`.
type Cache struct {
	store kvstore.Store
}

func New(store kvstore.Store) *Cache {
	return &Cache{store: store}
}

func key(id domain.VehicleID) string {
	return kvstore.KeyRCPrefix + id.String()
}

// Lookup is a pure read with no side effects and no charge. An absent entry
// is sentinel.ErrNotFound.
func (c *Cache) Lookup(ctx context.Context, id domain.VehicleID) (*Record, error) {
	raw, err := c.store.Get(ctx, key(id))
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read cached record for %s: %w", id, err)
	}

	var record Record
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil, fmt.Errorf("decode cached record for %s: %w", id, err)
	}
	return &record, nil
}

// Store writes the record only if no entry exists for the identifier.
// An existing entry stays untouched and the write reports
// sentinel.ErrAlreadyCached, which callers treat as "nothing changed", not a
// failure.
func (c *Cache) Store(ctx context.Context, id domain.VehicleID, record *Record) error {
	if record == nil {
		return fmt.Errorf("record is required")
	}

	_, err := c.store.Get(ctx, key(id))
	if err == nil {
		return sentinel.ErrAlreadyCached
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return fmt.Errorf("check cached record for %s: %w", id, err)
	}

	encoded, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode record for %s: %w", id, err)
	}
	if err := c.store.Set(ctx, key(id), string(encoded)); err != nil {
		return fmt.Errorf("store record for %s: %w", id, err)
	}
	return nil
}
