// Package httptransport assembles the HTTP surface: middleware chain,
// operational endpoints and the API routes contributed by each handler.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rcvault/internal/platform/middleware"
)

const apiTimeout = 30 * time.Second

// Handler contributes routes to the API router.
type Handler interface {
	Register(r chi.Router)
}

// NewRouter builds the full route tree. Operational endpoints sit outside
// the API middleware so a wedged store cannot block health checks.
func NewRouter(logger *slog.Logger, handlers ...Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.ClientDevice)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(api chi.Router) {
		api.Use(middleware.Timeout(apiTimeout))
		for _, h := range handlers {
			h.Register(api)
		}
	})

	return r
}
