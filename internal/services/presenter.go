package services

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"salesdash/internal/models"
)

const (
	topStatesShown = 5
	geoScope       = "south america"
)

// Present turns the aggregates of one run into the three dashboard views.
func Present(agg models.Aggregates, total decimal.Decimal, count, topSellers int) []models.View {
	metrics := summaryMetrics(total, count)

	return []models.View{
		{
			Key:     models.ViewRevenue,
			Title:   "Revenue",
			Metrics: metrics,
			Charts: []models.ChartSpec{
				revenueMapChart(agg.RevenueByState),
				monthlyRevenueChart(agg.MonthlyRevenue),
				topStatesChart(agg.RevenueByState),
				categoryChart(agg.RevenueByCategory),
			},
		},
		{
			Key:     models.ViewSalesCount,
			Title:   "Sales Count",
			Metrics: metrics,
			Charts: []models.ChartSpec{
				salesCountChart(agg.CountByState),
			},
		},
		{
			Key:     models.ViewSellers,
			Title:   "Sellers",
			Metrics: metrics,
			Charts: []models.ChartSpec{
				sellerRevenueChart(TopSellersByRevenue(agg.Sellers, topSellers), topSellers),
				sellerCountChart(TopSellersByCount(agg.Sellers, topSellers), topSellers),
			},
		},
	}
}

func summaryMetrics(total decimal.Decimal, count int) []models.Metric {
	return []models.Metric{
		{Label: "Revenue", Value: FormatNumber(total, CurrencyPrefix), Help: "Total revenue generated"},
		{Label: "Sales count", Value: FormatCount(count), Help: "Total sales made"},
	}
}

// States without coordinates are left off the map but still count
// everywhere else.
func revenueMapChart(rows []models.StateRevenue) models.ChartSpec {
	points := make([]models.ChartPoint, 0, len(rows))
	for _, r := range rows {
		if r.Location == nil {
			continue
		}
		lat, lon := r.Location.Lat, r.Location.Lon
		points = append(points, models.ChartPoint{
			Label: r.State,
			Value: r.Revenue.InexactFloat64(),
			Lat:   &lat,
			Lon:   &lon,
		})
	}
	return models.ChartSpec{
		ID:     "revenue-map",
		Kind:   models.ChartGeoBubble,
		Title:  "Revenue by state",
		XField: "state",
		YField: "revenue",
		Scope:  geoScope,
		Points: points,
	}
}

func monthlyRevenueChart(rows []models.MonthlyRevenue) models.ChartSpec {
	points := make([]models.ChartPoint, 0, len(rows))
	for _, r := range rows {
		points = append(points, models.ChartPoint{
			Label:  r.MonthName,
			Value:  r.Revenue.InexactFloat64(),
			Series: strconv.Itoa(r.Year),
		})
	}
	return models.ChartSpec{
		ID:       "monthly-revenue",
		Kind:     models.ChartLine,
		Title:    "Monthly revenue",
		XField:   "month",
		YField:   "revenue",
		SeriesBy: "year",
		Points:   points,
	}
}

func topStatesChart(rows []models.StateRevenue) models.ChartSpec {
	if len(rows) > topStatesShown {
		rows = rows[:topStatesShown]
	}
	points := make([]models.ChartPoint, 0, len(rows))
	for _, r := range rows {
		points = append(points, models.ChartPoint{Label: r.State, Value: r.Revenue.InexactFloat64()})
	}
	return models.ChartSpec{
		ID:     "top-states",
		Kind:   models.ChartBar,
		Title:  "Top states (revenue)",
		XField: "state",
		YField: "revenue",
		Points: points,
	}
}

func categoryChart(rows []models.CategoryRevenue) models.ChartSpec {
	points := make([]models.ChartPoint, 0, len(rows))
	for _, r := range rows {
		points = append(points, models.ChartPoint{Label: r.Category, Value: r.Revenue.InexactFloat64()})
	}
	return models.ChartSpec{
		ID:     "revenue-by-category",
		Kind:   models.ChartBar,
		Title:  "Revenue by category",
		XField: "category",
		YField: "revenue",
		Points: points,
	}
}

func salesCountChart(rows []models.StateCount) models.ChartSpec {
	points := make([]models.ChartPoint, 0, len(rows))
	for _, r := range rows {
		points = append(points, models.ChartPoint{Label: r.State, Value: float64(r.Count)})
	}
	return models.ChartSpec{
		ID:     "sales-by-state",
		Kind:   models.ChartBar,
		Title:  "Sales count by state",
		XField: "state",
		YField: "count",
		Points: points,
	}
}

func sellerRevenueChart(rows []models.SellerStats, n int) models.ChartSpec {
	points := make([]models.ChartPoint, 0, len(rows))
	for _, r := range rows {
		points = append(points, models.ChartPoint{Label: r.Seller, Value: r.Revenue.InexactFloat64()})
	}
	return models.ChartSpec{
		ID:         "top-sellers-revenue",
		Kind:       models.ChartBar,
		Title:      fmt.Sprintf("Top %d sellers (revenue)", n),
		XField:     "revenue",
		YField:     "seller",
		Horizontal: true,
		Points:     points,
	}
}

func sellerCountChart(rows []models.SellerStats, n int) models.ChartSpec {
	points := make([]models.ChartPoint, 0, len(rows))
	for _, r := range rows {
		points = append(points, models.ChartPoint{Label: r.Seller, Value: float64(r.Count)})
	}
	return models.ChartSpec{
		ID:         "top-sellers-count",
		Kind:       models.ChartBar,
		Title:      fmt.Sprintf("Top %d sellers (sales count)", n),
		XField:     "count",
		YField:     "seller",
		Horizontal: true,
		Points:     points,
	}
}
