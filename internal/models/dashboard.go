package models

import "time"

type ChartKind string

const (
	ChartGeoBubble ChartKind = "geo-bubble"
	ChartLine      ChartKind = "line"
	ChartBar       ChartKind = "bar"
)

// ChartPoint is one datum of a chart. Series groups points into lines
// (monthly chart by year); Lat/Lon are only set on geographic charts.
type ChartPoint struct {
	Label  string   `json:"label"`
	Value  float64  `json:"value"`
	Series string   `json:"series,omitempty"`
	Lat    *float64 `json:"lat,omitempty"`
	Lon    *float64 `json:"lon,omitempty"`
}

type ChartSpec struct {
	ID         string       `json:"id"`
	Kind       ChartKind    `json:"kind"`
	Title      string       `json:"title"`
	XField     string       `json:"x_field"`
	YField     string       `json:"y_field"`
	SeriesBy   string       `json:"series_by,omitempty"`
	Horizontal bool         `json:"horizontal,omitempty"`
	Scope      string       `json:"scope,omitempty"`
	Points     []ChartPoint `json:"points"`
}

type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Help  string `json:"help"`
}

type ViewKey string

const (
	ViewRevenue    ViewKey = "revenue"
	ViewSalesCount ViewKey = "sales-count"
	ViewSellers    ViewKey = "sellers"
)

type View struct {
	Key     ViewKey     `json:"key"`
	Title   string      `json:"title"`
	Metrics []Metric    `json:"metrics"`
	Charts  []ChartSpec `json:"charts"`
}

// Dashboard is the result of one pipeline run.
type Dashboard struct {
	Region      Selection[Region] `json:"region"`
	Year        Selection[int]    `json:"year"`
	Sellers     []string          `json:"selected_sellers"`
	TopSellers  int               `json:"top_sellers"`
	SellerNames []string          `json:"seller_options"`
	RecordCount int               `json:"record_count"`
	Aggregates  Aggregates        `json:"aggregates"`
	Views       []View            `json:"views"`
	GeneratedAt time.Time         `json:"generated_at"`
}

func (d *Dashboard) View(key ViewKey) (View, bool) {
	for _, v := range d.Views {
		if v.Key == key {
			return v, true
		}
	}
	return View{}, false
}
