package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rcvault/internal/lookup"
	"rcvault/internal/platform/metrics"
	"rcvault/internal/platform/middleware"
	"rcvault/internal/rccache"
	"rcvault/internal/render"
	"rcvault/internal/transport/http/shared"
	"rcvault/pkg/domain"
	domainerrors "rcvault/pkg/domain-errors"
	"rcvault/pkg/platform/sentinel"
)

// LookupService resolves identifiers to RC records, billing on cache miss.
type LookupService interface {
	Resolve(ctx context.Context, rawIdentifier string, cost int64) (*lookup.Result, error)
}

// RecordCache is the read-only record view the document endpoint uses. It
// never triggers a fetch or a charge.
type RecordCache interface {
	Lookup(ctx context.Context, id domain.VehicleID) (*rccache.Record, error)
}

// VehicleHandler handles RC lookups and document downloads.
type VehicleHandler struct {
	logger     *slog.Logger
	lookups    LookupService
	cache      RecordCache
	metrics    *metrics.Metrics
	lookupCost int64
}

func NewVehicleHandler(lookups LookupService, cache RecordCache, lookupCost int64, logger *slog.Logger, m *metrics.Metrics) *VehicleHandler {
	return &VehicleHandler{
		logger:     logger,
		lookups:    lookups,
		cache:      cache,
		metrics:    m,
		lookupCost: lookupCost,
	}
}

// Register mounts the vehicle routes.
func (h *VehicleHandler) Register(r chi.Router) {
	r.Post("/vehicles/lookup", h.handleLookup)
	r.Get("/vehicles/{number}/document", h.handleDocument)
}

type lookupRequest struct {
	VehicleNumber string `json:"vehicle_number"`
}

type lookupResponse struct {
	VehicleNumber string          `json:"vehicle_number"`
	Cached        bool            `json:"cached"`
	Record        *rccache.Record `json:"record"`
}

func (h *VehicleHandler) handleLookup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req lookupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "invalid request body"))
		return
	}

	result, err := h.lookups.Resolve(ctx, req.VehicleNumber, h.lookupCost)
	if err != nil {
		if h.logger != nil {
			h.logger.WarnContext(ctx, "lookup failed",
				"vehicle_number", req.VehicleNumber,
				"request_id", middleware.GetRequestID(ctx),
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, lookupResponse{
		VehicleNumber: result.ID.String(),
		Cached:        result.Cached,
		Record:        result.Record,
	})
}

// handleDocument serves the certificate for an already-cached record. It is a
// pure read: an identifier that was never looked up returns 404 rather than
// triggering a billed fetch.
func (h *VehicleHandler) handleDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := domain.ParseVehicleID(chi.URLParam(r, "number"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	record, err := h.cache.Lookup(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		shared.WriteError(w, domainerrors.Newf(domainerrors.CodeNotFound,
			"no record for %s; look it up first", id))
		return
	}
	if err != nil {
		shared.WriteError(w, domainerrors.Wrap(err, domainerrors.CodeStoreFailure, "could not read record cache"))
		return
	}

	if h.metrics != nil {
		h.metrics.DocumentsRendered.Inc()
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+render.DocumentFilename(id)+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(render.Document(record))
}
