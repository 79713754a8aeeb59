package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"salesdash/internal/errors"
	"salesdash/internal/models"
	"salesdash/internal/observability"
	"salesdash/internal/services"
	"salesdash/internal/ui/templates"
)

var viewKeys = []models.ViewKey{models.ViewRevenue, models.ViewSalesCount, models.ViewSellers}

type SSEHandlers struct {
	analytics *services.Analytics
	filters   Filters
	logger    *slog.Logger
}

func NewSSEHandlers(analytics *services.Analytics, filters Filters, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		analytics: analytics,
		filters:   filters,
		logger:    logger,
	}
}

// HandleDashboard re-runs the pipeline with the page's current signals and
// patches the three views, the seller options and the chart signal. A failed
// run replaces the views with an error panel; nothing partial is shown.
func (h *SSEHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	var sig dashboardSignals
	sigErr := datastar.ReadSignals(r, &sig)

	sse := datastar.NewSSE(w, r)
	ctx := r.Context()

	if sigErr != nil {
		h.patchError(ctx, sse, errors.ValidationWrap(sigErr, "Invalid filter signals"))
		return
	}

	params, err := h.filters.fromSignals(sig)
	if err != nil {
		h.patchError(ctx, sse, errors.FromPipeline(err))
		return
	}

	dashboard, err := h.analytics.Run(ctx, params)
	if err != nil {
		h.patchError(ctx, sse, errors.FromPipeline(err))
		return
	}

	h.patchDashboard(ctx, sse, dashboard)
}

func (h *SSEHandlers) patchDashboard(ctx context.Context, sse *datastar.ServerSentEventGenerator, d *models.Dashboard) {
	charts := make(map[string]models.ChartSpec)
	for _, v := range d.Views {
		for _, c := range v.Charts {
			charts[c.ID] = c
		}
		if !h.patch(ctx, sse, templates.ViewPanel(v)) {
			return
		}
	}

	if !h.patch(ctx, sse, templates.SellerOptions(d.SellerNames, d.Sellers)) {
		return
	}
	if !h.patch(ctx, sse, templates.ClearError()) {
		return
	}

	h.patchSignals(sse, map[string]any{
		"_charts":  charts,
		"_loading": false,
	})
}

func (h *SSEHandlers) patchError(ctx context.Context, sse *datastar.ServerSentEventGenerator, appErr *errors.AppError) {
	appErr.RequestID = observability.GetRequestID(ctx)

	h.logger.WarnContext(ctx, "dashboard update failed",
		"error_code", appErr.Code,
		"status_code", appErr.StatusCode,
		"request_id", appErr.RequestID,
		"cause", appErr.Cause,
	)

	for _, key := range viewKeys {
		if !h.patch(ctx, sse, templates.EmptyView(key)) {
			return
		}
	}
	if !h.patch(ctx, sse, templates.ErrorPanel(appErr)) {
		return
	}

	h.patchSignals(sse, map[string]any{
		"_charts":  map[string]any{},
		"_loading": false,
	})
}

func (h *SSEHandlers) patch(ctx context.Context, sse *datastar.ServerSentEventGenerator, c templ.Component) bool {
	html, err := templates.RenderString(ctx, c)
	if err != nil {
		h.logger.ErrorContext(ctx, "render fragment", "error", err)
		return false
	}
	if err := sse.PatchElements(html); err != nil {
		h.logger.WarnContext(ctx, "patch elements", "error", err)
		return false
	}
	return true
}

func (h *SSEHandlers) patchSignals(sse *datastar.ServerSentEventGenerator, signals map[string]any) {
	data, err := json.Marshal(signals)
	if err != nil {
		h.logger.Error("marshal signals", "error", err)
		return
	}
	if err := sse.PatchSignals(data); err != nil {
		h.logger.Warn("patch signals", "error", err)
	}
}
