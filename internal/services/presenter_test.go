package services

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"salesdash/internal/models"
)

func chartByID(t *testing.T, views []models.View, id string) models.ChartSpec {
	t.Helper()
	for _, v := range views {
		for _, c := range v.Charts {
			if c.ID == id {
				return c
			}
		}
	}
	t.Fatalf("chart %q not found", id)
	return models.ChartSpec{}
}

func labels(c models.ChartSpec) []string {
	out := []string{}
	for _, p := range c.Points {
		out = append(out, p.Label)
	}
	return out
}

func TestPresent_Views(t *testing.T) {
	sales := fixtureSales()
	views := Present(Aggregate(sales), TotalRevenue(sales), len(sales), 2)

	var keys []models.ViewKey
	for _, v := range views {
		keys = append(keys, v.Key)
	}
	want := []models.ViewKey{models.ViewRevenue, models.ViewSalesCount, models.ViewSellers}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Fatalf("view order mismatch (-want +got):\n%s", diff)
	}

	wantMetrics := []models.Metric{
		{Label: "Revenue", Value: "R$ 3.15 thousand", Help: "Total revenue generated"},
		{Label: "Sales count", Value: "6.00 ", Help: "Total sales made"},
	}
	for _, v := range views {
		if diff := cmp.Diff(wantMetrics, v.Metrics); diff != "" {
			t.Errorf("%s metrics mismatch (-want +got):\n%s", v.Key, diff)
		}
	}
}

func TestPresent_Charts(t *testing.T) {
	sales := fixtureSales()
	views := Present(Aggregate(sales), TotalRevenue(sales), len(sales), 2)

	tests := []struct {
		id         string
		kind       models.ChartKind
		title      string
		labels     []string
		horizontal bool
	}{
		{"revenue-map", models.ChartGeoBubble, "Revenue by state", []string{"SP", "MG", "RJ"}, false},
		{"top-states", models.ChartBar, "Top states (revenue)", []string{"SP", "MG", "RJ"}, false},
		{"revenue-by-category", models.ChartBar, "Revenue by category", []string{"eletronicos", "moveis", "livros"}, false},
		{"sales-by-state", models.ChartBar, "Sales count by state", []string{"SP", "RJ", "MG"}, false},
		{"top-sellers-revenue", models.ChartBar, "Top 2 sellers (revenue)", []string{"Ana", "Carla"}, true},
		{"top-sellers-count", models.ChartBar, "Top 2 sellers (sales count)", []string{"Ana", "Bruno"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			c := chartByID(t, views, tt.id)
			if c.Kind != tt.kind {
				t.Errorf("Kind = %s, want %s", c.Kind, tt.kind)
			}
			if c.Title != tt.title {
				t.Errorf("Title = %q, want %q", c.Title, tt.title)
			}
			if c.Horizontal != tt.horizontal {
				t.Errorf("Horizontal = %v, want %v", c.Horizontal, tt.horizontal)
			}
			if diff := cmp.Diff(tt.labels, labels(c)); diff != "" {
				t.Errorf("labels mismatch (-want +got):\n%s", diff)
			}
		})
	}

	line := chartByID(t, views, "monthly-revenue")
	if line.Kind != models.ChartLine || line.SeriesBy != "year" {
		t.Errorf("unexpected monthly chart %+v", line)
	}
	if first := line.Points[0]; first.Label != "January" || first.Series != "2020" || first.Value != 1800.1 {
		t.Errorf("unexpected first monthly point %+v", first)
	}
}

func TestPresent_MapSkipsStatesWithoutLocation(t *testing.T) {
	sales := []models.Sale{
		at(newSale("01/01/2020", "A", "SP", "x", "10"), -22.19, -48.79),
		newSale("01/01/2020", "A", "XX", "x", "99"),
	}
	views := Present(Aggregate(sales), TotalRevenue(sales), len(sales), DefaultTopSellers)

	geo := chartByID(t, views, "revenue-map")
	if diff := cmp.Diff([]string{"SP"}, labels(geo)); diff != "" {
		t.Errorf("map labels mismatch (-want +got):\n%s", diff)
	}
	if p := geo.Points[0]; p.Lat == nil || *p.Lat != -22.19 || p.Lon == nil || *p.Lon != -48.79 {
		t.Errorf("unexpected map point %+v", p)
	}

	if diff := cmp.Diff([]string{"XX", "SP"}, labels(chartByID(t, views, "top-states"))); diff != "" {
		t.Errorf("top states should still include XX (-want +got):\n%s", diff)
	}
}

func TestPresent_TopStatesCappedAtFive(t *testing.T) {
	var sales []models.Sale
	for _, st := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		sales = append(sales, newSale("01/01/2020", "s", st, "x", "1"))
	}
	views := Present(Aggregate(sales), TotalRevenue(sales), len(sales), DefaultTopSellers)

	if got := len(chartByID(t, views, "top-states").Points); got != topStatesShown {
		t.Errorf("top states has %d points, want %d", got, topStatesShown)
	}
	if got := len(chartByID(t, views, "sales-by-state").Points); got != 7 {
		t.Errorf("sales by state has %d points, want 7", got)
	}
}

func TestPresent_Empty(t *testing.T) {
	views := Present(Aggregate(nil), TotalRevenue(nil), 0, DefaultTopSellers)

	for _, v := range views {
		for _, c := range v.Charts {
			if c.Points == nil || len(c.Points) != 0 {
				t.Errorf("chart %s should have empty non-nil points, got %#v", c.ID, c.Points)
			}
		}
		if v.Metrics[0].Value != "R$ 0.00 " {
			t.Errorf("revenue metric = %q", v.Metrics[0].Value)
		}
	}
}
