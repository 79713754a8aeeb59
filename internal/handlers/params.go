package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"salesdash/internal/config"
	"salesdash/internal/errors"
	"salesdash/internal/models"
	"salesdash/internal/services"
)

// flexInt accepts 2021 as well as "2021"; bound inputs may send either.
type flexInt int

func (n *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.Atoi(string(b))
	if err != nil {
		return fmt.Errorf("not an integer: %s", b)
	}
	*n = flexInt(v)
	return nil
}

// dashboardSignals are the sidebar signals sent by the page.
type dashboardSignals struct {
	Region     string   `json:"region"`
	AllYears   bool     `json:"allYears"`
	Year       flexInt  `json:"year"`
	Sellers    []string `json:"sellers"`
	TopSellers flexInt  `json:"topSellers"`
}

// Filters validates sidebar selections against the configured bounds.
type Filters struct {
	cfg config.DashboardConfig
}

func NewFilters(cfg config.DashboardConfig) Filters {
	return Filters{cfg: cfg}
}

func (f Filters) fromSignals(sig dashboardSignals) (services.Params, error) {
	year := 0
	if !sig.AllYears {
		year = int(sig.Year)
	}
	return f.build(sig.Region, year, sig.Sellers, int(sig.TopSellers))
}

// fromQuery reads region, year, sellers (comma separated or repeated) and top.
// A missing or "all" year selects the whole period.
func (f Filters) fromQuery(q url.Values) (services.Params, error) {
	year := 0
	if raw := strings.TrimSpace(q.Get("year")); raw != "" && !strings.EqualFold(raw, "all") {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return services.Params{}, errors.ValidationWrap(err, fmt.Sprintf("year must be a number, got %q", raw))
		}
		year = v
	}

	top := 0
	if raw := strings.TrimSpace(q.Get("top")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return services.Params{}, errors.ValidationWrap(err, fmt.Sprintf("top must be a number, got %q", raw))
		}
		top = v
	}

	var sellers []string
	for _, v := range q["sellers"] {
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				sellers = append(sellers, s)
			}
		}
	}

	return f.build(q.Get("region"), year, sellers, top)
}

// build turns raw selections into pipeline parameters. year 0 means all
// years; top 0 means the configured default.
func (f Filters) build(region string, year int, sellers []string, top int) (services.Params, error) {
	sel, ok := models.ParseRegion(region)
	if !ok {
		return services.Params{}, errors.Validation(fmt.Sprintf("unknown region %q", region))
	}

	p := services.Params{
		Region:     sel,
		Year:       models.All[int](),
		Sellers:    sellers,
		TopSellers: top,
	}

	if year != 0 {
		if year < f.cfg.MinYear || year > f.cfg.MaxYear {
			return services.Params{}, errors.Validation(fmt.Sprintf("year must be between %d and %d, got %d", f.cfg.MinYear, f.cfg.MaxYear, year))
		}
		p.Year = models.Only(year)
	}

	if p.TopSellers == 0 {
		p.TopSellers = f.cfg.DefaultTopSellers
	}
	if p.TopSellers < services.MinTopSellers || p.TopSellers > services.MaxTopSellers {
		return services.Params{}, errors.Validation(fmt.Sprintf("top must be between %d and %d, got %d", services.MinTopSellers, services.MaxTopSellers, p.TopSellers))
	}

	return p, nil
}

// Options describes the sidebar inputs.
func (f Filters) Options() map[string]any {
	return map[string]any{
		"regions":             models.Regions,
		"min_year":            f.cfg.MinYear,
		"max_year":            f.cfg.MaxYear,
		"min_top_sellers":     services.MinTopSellers,
		"max_top_sellers":     services.MaxTopSellers,
		"default_top_sellers": f.cfg.DefaultTopSellers,
	}
}

var _ json.Unmarshaler = (*flexInt)(nil)
