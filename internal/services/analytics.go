package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"salesdash/internal/errors"
	"salesdash/internal/models"
	"salesdash/internal/observability"
)

const (
	MinTopSellers     = 1
	MaxTopSellers     = 100
	DefaultTopSellers = 10
)

// SalesSource returns the raw provider payload for a query.
type SalesSource interface {
	Fetch(ctx context.Context, q models.Query) ([]byte, error)
}

// Params are the sidebar selections for one run. A zero TopSellers means
// DefaultTopSellers.
type Params struct {
	Region     models.Selection[models.Region]
	Year       models.Selection[int]
	Sellers    []string
	TopSellers int
}

func (p Params) validate() error {
	if p.TopSellers < MinTopSellers || p.TopSellers > MaxTopSellers {
		return errors.Validation(fmt.Sprintf("top sellers must be between %d and %d, got %d", MinTopSellers, MaxTopSellers, p.TopSellers))
	}
	return nil
}

type lastRun struct {
	At       time.Time
	Duration time.Duration
	Records  int
	Err      string
}

// Analytics runs the fetch, load, filter, aggregate and present pipeline.
// Every Run starts from scratch; only counters survive between runs.
type Analytics struct {
	source   SalesSource
	logger   *slog.Logger
	runs     atomic.Int64
	failures atomic.Int64
	last     atomic.Pointer[lastRun]
}

func NewAnalytics(source SalesSource, logger *slog.Logger) *Analytics {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analytics{
		source: source,
		logger: logger,
	}
}

// Run executes the whole pipeline. Any fetch, decode or date error aborts the
// run and no dashboard is returned.
func (a *Analytics) Run(ctx context.Context, p Params) (*models.Dashboard, error) {
	if p.TopSellers == 0 {
		p.TopSellers = DefaultTopSellers
	}
	if err := p.validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	a.runs.Add(1)

	dashboard, err := a.run(ctx, p)

	run := &lastRun{At: start, Duration: time.Since(start)}
	if err != nil {
		a.failures.Add(1)
		run.Err = err.Error()
		a.last.Store(run)
		a.logger.WarnContext(ctx, "dashboard run failed",
			"error", err,
			"duration", run.Duration,
			"request_id", observability.GetRequestID(ctx),
		)
		return nil, err
	}

	run.Records = dashboard.RecordCount
	a.last.Store(run)
	a.logger.InfoContext(ctx, "dashboard run complete",
		"records", dashboard.RecordCount,
		"sellers_selected", len(p.Sellers),
		"duration", run.Duration,
		"request_id", observability.GetRequestID(ctx),
	)
	return dashboard, nil
}

func (a *Analytics) run(ctx context.Context, p Params) (*models.Dashboard, error) {
	var payload []byte
	err := a.stage(ctx, "fetch", func(ctx context.Context, span *observability.Span) error {
		var err error
		payload, err = a.source.Fetch(ctx, models.Query{Region: p.Region, Year: p.Year})
		span.SetTag("bytes", strconv.Itoa(len(payload)))
		return err
	})
	if err != nil {
		return nil, err
	}

	var sales []models.Sale
	err = a.stage(ctx, "load", func(ctx context.Context, span *observability.Span) error {
		var err error
		sales, err = LoadSales(payload)
		span.SetTag("records", strconv.Itoa(len(sales)))
		return err
	})
	if err != nil {
		return nil, err
	}

	dashboard := &models.Dashboard{
		Region:      p.Region,
		Year:        p.Year,
		Sellers:     p.Sellers,
		TopSellers:  p.TopSellers,
		SellerNames: Sellers(sales),
	}

	err = a.stage(ctx, "aggregate", func(ctx context.Context, span *observability.Span) error {
		filtered := FilterSellers(sales, p.Sellers)
		dashboard.RecordCount = len(filtered)
		dashboard.Aggregates = Aggregate(filtered)
		dashboard.Views = Present(dashboard.Aggregates, TotalRevenue(filtered), len(filtered), p.TopSellers)
		span.SetTag("records", strconv.Itoa(len(filtered)))
		return ctx.Err()
	})
	if err != nil {
		return nil, err
	}

	dashboard.GeneratedAt = time.Now().UTC()
	return dashboard, nil
}

func (a *Analytics) stage(ctx context.Context, name string, fn func(context.Context, *observability.Span) error) error {
	ctx, span := observability.StartSpan(ctx, "pipeline."+name)
	defer span.Finish(ctx, a.logger)

	if err := fn(ctx, span); err != nil {
		span.SetError(err)
		return err
	}
	return nil
}

// Stats reports run counters for the admin endpoint.
func (a *Analytics) Stats() map[string]any {
	stats := map[string]any{
		"runs":     a.runs.Load(),
		"failures": a.failures.Load(),
	}
	if last := a.last.Load(); last != nil {
		stats["last_run_at"] = last.At
		stats["last_run_duration"] = last.Duration.String()
		stats["last_run_records"] = last.Records
		if last.Err != "" {
			stats["last_run_error"] = last.Err
		}
	}
	return stats
}
