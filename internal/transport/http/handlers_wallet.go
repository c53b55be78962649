package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"rcvault/internal/ledger"
	"rcvault/internal/platform/metrics"
	"rcvault/internal/platform/middleware"
	"rcvault/internal/render"
	"rcvault/internal/transport/http/shared"
	domainerrors "rcvault/pkg/domain-errors"
)

// LedgerService defines the wallet operations the handler needs.
type LedgerService interface {
	Balance(ctx context.Context) (int64, error)
	TopUp(ctx context.Context, amount int64) (int64, error)
	History(ctx context.Context) ([]ledger.Transaction, error)
	Stats(ctx context.Context) (ledger.Stats, error)
}

// WalletHandler handles balance, top-up, history and export endpoints.
type WalletHandler struct {
	logger  *slog.Logger
	ledger  LedgerService
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewWalletHandler(ledgerSvc LedgerService, logger *slog.Logger, m *metrics.Metrics) *WalletHandler {
	return &WalletHandler{
		logger:  logger,
		ledger:  ledgerSvc,
		metrics: m,
		now:     time.Now,
	}
}

// Register mounts the wallet routes.
func (h *WalletHandler) Register(r chi.Router) {
	r.Post("/wallet/topup", h.handleTopUp)
	r.Get("/wallet/balance", h.handleBalance)
	r.Get("/wallet/transactions", h.handleTransactions)
	r.Get("/wallet/transactions/export", h.handleExport)
}

type topUpRequest struct {
	Amount int64 `json:"amount"`
}

type balanceResponse struct {
	Balance int64 `json:"balance"`
}

func (h *WalletHandler) handleTopUp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req topUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.warn(ctx, "invalid top-up request body", err)
		shared.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "invalid request body"))
		return
	}

	balance, err := h.ledger.TopUp(ctx, req.Amount)
	if err != nil {
		if domainerrors.Is(err, domainerrors.CodeInvalidAmount) {
			h.warn(ctx, "top-up rejected", err)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, balanceResponse{Balance: balance})
}

func (h *WalletHandler) handleBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.ledger.Balance(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, balanceResponse{Balance: balance})
}

type transactionsResponse struct {
	Rows       []render.Row `json:"rows"`
	Page       int          `json:"page"`
	TotalPages int          `json:"total_pages"`
	Stats      ledger.Stats `json:"stats"`
}

func (h *WalletHandler) handleTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	txns, err := h.ledger.History(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	stats, err := h.ledger.Stats(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			shared.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "page must be an integer"))
			return
		}
		page = parsed
	}

	rows := render.Rows(txns, r.URL.Query().Get("filter"))
	pageRows, totalPages := render.Page(rows, page)
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	shared.WriteJSON(w, http.StatusOK, transactionsResponse{
		Rows:       pageRows,
		Page:       page,
		TotalPages: totalPages,
		Stats:      stats,
	})
}

func (h *WalletHandler) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	txns, err := h.ledger.History(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	rows := render.Rows(txns, r.URL.Query().Get("filter"))
	out, err := render.CSV(rows)
	if err != nil {
		shared.WriteError(w, domainerrors.Wrap(err, domainerrors.CodeInternal, "could not build export"))
		return
	}

	if h.metrics != nil {
		h.metrics.ExportsTotal.Inc()
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+render.CSVFilename(h.now())+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func (h *WalletHandler) warn(ctx context.Context, msg string, err error) {
	if h.logger != nil {
		h.logger.WarnContext(ctx, msg,
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
	}
}
