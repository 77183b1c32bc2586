package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/awd2211/lnkday-privacy/internal/platform/middleware"
	respond "github.com/awd2211/lnkday-privacy/internal/transport/http/json"
)

// HealthChecker reports backing store health for the readiness endpoint.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// NewRouter wires all public endpoints with middleware. Everything under /v1
// requires the caller's identity; /metrics and /healthz stay open for
// scrapers and probes.
func NewRouter(consents *ConsentHandler, requests *RequestHandler, health HealthChecker, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ContentTypeJSON)

	r.Route("/v1", func(r chi.Router) {
		// Download links authenticate with their signed token, not a header.
		r.Get("/data-requests/download/{token}", requests.handleDownload)

		r.Group(func(r chi.Router) {
			r.Use(middleware.UserID)

			r.Post("/consents", consents.handleUpsertConsent)
			r.Post("/consents/bulk", consents.handleBulkConsent)
			r.Get("/consents", consents.handleListConsents)
			r.Get("/consents/types", consents.handleConsentTypes)

			r.Post("/data-requests", requests.handleCreateRequest)
			r.Get("/data-requests", requests.handleListRequests)
			r.Post("/data-requests/export", requests.handleCreateExport)
			r.Post("/data-requests/deletion", requests.handleCreateDeletion)
			r.Get("/data-requests/{id}", requests.handleGetRequest)
			r.Delete("/data-requests/{id}", requests.handleCancelDeletion)

			r.Get("/privacy/overview", requests.handleOverview)
			r.Get("/privacy/rights", requests.handleRights)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if health != nil {
			if err := health.Health(req.Context()); err != nil {
				respond.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "degraded",
					"error":  err.Error(),
				})
				return
			}
		}
		respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}
