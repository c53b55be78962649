package httptransport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rcvault/internal/lookup"
	"rcvault/internal/rccache"
	"rcvault/pkg/domain"
	domainerrors "rcvault/pkg/domain-errors"
	"rcvault/pkg/platform/sentinel"
)

type fakeLookups struct {
	result *lookup.Result
	err    error

	lastRaw  string
	lastCost int64
}

func (f *fakeLookups) Resolve(_ context.Context, raw string, cost int64) (*lookup.Result, error) {
	f.lastRaw = raw
	f.lastCost = cost
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeRecords struct {
	records map[domain.VehicleID]*rccache.Record
}

func (f *fakeRecords) Lookup(_ context.Context, id domain.VehicleID) (*rccache.Record, error) {
	if record, ok := f.records[id]; ok {
		return record, nil
	}
	return nil, sentinel.ErrNotFound
}

func vehicleServer(t *testing.T, lookups LookupService, cache RecordCache) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewRouter(nil, NewVehicleHandler(lookups, cache, 5, nil, nil)))
	t.Cleanup(srv.Close)
	return srv
}

func TestLookupReturnsRecord(t *testing.T) {
	id := domain.VehicleID("TN01AB1234")
	lookups := &fakeLookups{result: &lookup.Result{
		ID:     id,
		Record: &rccache.Record{VehicleNumber: id.String(), OwnerName: "Raj Kumar"},
		Cached: false,
	}}
	srv := vehicleServer(t, lookups, &fakeRecords{})

	resp, err := http.Post(srv.URL+"/vehicles/lookup", "application/json",
		strings.NewReader(`{"vehicle_number": "tn 01 ab 1234"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body lookupResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "TN01AB1234", body.VehicleNumber)
	assert.False(t, body.Cached)
	assert.Equal(t, "Raj Kumar", body.Record.OwnerName)

	assert.Equal(t, "tn 01 ab 1234", lookups.lastRaw)
	assert.Equal(t, int64(5), lookups.lastCost)
}

func TestLookupInsufficientBalanceMapsTo402(t *testing.T) {
	lookups := &fakeLookups{err: domainerrors.New(domainerrors.CodeInsufficientBalance,
		"balance ₹3 cannot cover ₹5 lookup fee")}
	srv := vehicleServer(t, lookups, &fakeRecords{})

	resp, err := http.Post(srv.URL+"/vehicles/lookup", "application/json",
		strings.NewReader(`{"vehicle_number": "TN01AB1234"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusPaymentRequired, resp.StatusCode)

	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, string(domainerrors.CodeInsufficientBalance), body.Error)
	assert.Contains(t, body.Message, "lookup fee")
}

func TestLookupFetchFailureMapsTo502(t *testing.T) {
	lookups := &fakeLookups{err: domainerrors.New(domainerrors.CodeFetchFailed, "upstream unavailable")}
	srv := vehicleServer(t, lookups, &fakeRecords{})

	resp, err := http.Post(srv.URL+"/vehicles/lookup", "application/json",
		strings.NewReader(`{"vehicle_number": "TN01AB1234"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestLookupRejectsMalformedBody(t *testing.T) {
	srv := vehicleServer(t, &fakeLookups{}, &fakeRecords{})

	resp, err := http.Post(srv.URL+"/vehicles/lookup", "application/json",
		strings.NewReader(`not json`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDocumentServesCachedRecord(t *testing.T) {
	id := domain.VehicleID("TN01AB1234")
	cache := &fakeRecords{records: map[domain.VehicleID]*rccache.Record{
		id: {VehicleNumber: id.String(), OwnerName: "Raj Kumar"},
	}}
	srv := vehicleServer(t, &fakeLookups{}, cache)

	resp, err := http.Get(srv.URL + "/vehicles/TN01AB1234/document")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `attachment; filename="TN01AB1234_RC.txt"`,
		resp.Header.Get("Content-Disposition"))

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "REGISTRATION CERTIFICATE (RC)")
	assert.Contains(t, string(raw), "Raj Kumar")
}

func TestDocumentNormalizesIdentifier(t *testing.T) {
	id := domain.VehicleID("TN01AB1234")
	cache := &fakeRecords{records: map[domain.VehicleID]*rccache.Record{
		id: {VehicleNumber: id.String()},
	}}
	srv := vehicleServer(t, &fakeLookups{}, cache)

	resp, err := http.Get(srv.URL + "/vehicles/tn-01-ab-1234/document")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDocumentUncachedIs404(t *testing.T) {
	srv := vehicleServer(t, &fakeLookups{}, &fakeRecords{})

	resp, err := http.Get(srv.URL + "/vehicles/TN99ZZ9999/document")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDocumentInvalidIdentifier(t *testing.T) {
	srv := vehicleServer(t, &fakeLookups{}, &fakeRecords{})

	resp, err := http.Get(srv.URL + "/vehicles/NOPE/document")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
