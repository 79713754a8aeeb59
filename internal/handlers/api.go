package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"salesdash/internal/errors"
	"salesdash/internal/models"
	"salesdash/internal/observability"
	"salesdash/internal/services"
)

// Every request re-runs the pipeline against the provider.
var noStore = map[string]string{
	"Cache-Control": "no-store",
}

type APIHandlers struct {
	analytics *services.Analytics
	filters   Filters
	logger    *slog.Logger
}

func NewAPIHandlers(analytics *services.Analytics, filters Filters, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		analytics: analytics,
		filters:   filters,
		logger:    logger,
	}
}

func (h *APIHandlers) runFromQuery(w http.ResponseWriter, r *http.Request) (*models.Dashboard, bool) {
	requestID := observability.GetRequestID(r.Context())

	params, err := h.filters.fromQuery(r.URL.Query())
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return nil, false
	}

	dashboard, err := h.analytics.Run(r.Context(), params)
	if err != nil {
		errors.WriteError(w, h.logger, errors.FromPipeline(err), requestID)
		return nil, false
	}
	return dashboard, true
}

func (h *APIHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, ok := h.runFromQuery(w, r)
	if !ok {
		return
	}

	errors.WriteSuccessWithHeaders(w, dashboard, noStore)
}

func (h *APIHandlers) HandleView(w http.ResponseWriter, r *http.Request) {
	key := models.ViewKey(r.PathValue("view"))
	switch key {
	case models.ViewRevenue, models.ViewSalesCount, models.ViewSellers:
	default:
		errors.WriteError(w, h.logger, errors.NotFound("unknown view "+string(key)), observability.GetRequestID(r.Context()))
		return
	}

	dashboard, ok := h.runFromQuery(w, r)
	if !ok {
		return
	}

	view, _ := dashboard.View(key)
	errors.WriteSuccessWithHeaders(w, view, noStore)
}

func (h *APIHandlers) HandleFilters(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccessWithHeaders(w, h.filters.Options(), map[string]string{
		"Cache-Control": "public, max-age=300",
	})
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.analytics.Stats())
}
