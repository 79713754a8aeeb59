// Package templates holds the dashboard page and the fragments patched into
// it over SSE. Components are written in .templ files; run `templ generate`
// after editing them.
package templates

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/a-h/templ"

	"salesdash/internal/models"
)

// PageData bounds the sidebar filters.
type PageData struct {
	Title             string
	Regions           []models.Region
	MinYear           int
	MaxYear           int
	DefaultTopSellers int
	MaxTopSellers     int
}

type tab struct {
	Key   models.ViewKey
	Title string
}

var tabs = []tab{
	{models.ViewRevenue, "Revenue"},
	{models.ViewSalesCount, "Sales Count"},
	{models.ViewSellers, "Sellers"},
}

func tabShow(key models.ViewKey) string {
	return "$tab == '" + string(key) + "'"
}

func tabSelect(key models.ViewKey) string {
	return "$tab = '" + string(key) + "'"
}

// Dashboard renders the full page. View content arrives over /sse/dashboard.
func Dashboard(data PageData) templ.Component {
	if data.Title == "" {
		data.Title = "Sales Dashboard"
	}

	signals, _ := json.Marshal(map[string]any{
		"region":     string(models.RegionBrazil),
		"allYears":   true,
		"year":       data.MaxYear,
		"sellers":    []string{},
		"topSellers": data.DefaultTopSellers,
		"tab":        string(models.ViewRevenue),
		"_loading":   true,
		"_charts":    map[string]any{},
	})

	return page(data, string(signals))
}

// RenderString renders c for use as an SSE element patch.
func RenderString(ctx context.Context, c templ.Component) (string, error) {
	var buf strings.Builder
	if err := c.Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
