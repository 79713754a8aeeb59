package services

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"salesdash/internal/models"
)

// groupBy folds sales into one T per key. Groups come back in the order their
// key was first seen, which the stable sorts below rely on for ties.
func groupBy[T any](sales []models.Sale, key func(models.Sale) string, init func(models.Sale) T, add func(*T, models.Sale)) []T {
	index := make(map[string]int)
	groups := make([]T, 0)
	for _, sale := range sales {
		k := key(sale)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, init(sale))
		}
		add(&groups[i], sale)
	}
	return groups
}

func byState(s models.Sale) string { return s.State }

// Aggregate computes every table the dashboard needs from one collection.
func Aggregate(sales []models.Sale) models.Aggregates {
	return models.Aggregates{
		RevenueByState:    RevenueByState(sales),
		MonthlyRevenue:    MonthlyRevenue(sales),
		RevenueByCategory: RevenueByCategory(sales),
		CountByState:      SalesCountByState(sales),
		Sellers:           SellerSummary(sales),
	}
}

// RevenueByState sums price per state, highest revenue first. A state's
// location is the first one seen among its sales; it stays nil if none of
// them carried coordinates.
func RevenueByState(sales []models.Sale) []models.StateRevenue {
	result := groupBy(sales, byState,
		func(s models.Sale) models.StateRevenue {
			return models.StateRevenue{State: s.State, Revenue: decimal.Zero}
		},
		func(g *models.StateRevenue, s models.Sale) {
			g.Revenue = g.Revenue.Add(s.Price)
			if g.Location == nil {
				g.Location = s.Location
			}
		},
	)
	slices.SortStableFunc(result, func(a, b models.StateRevenue) int {
		return b.Revenue.Cmp(a.Revenue)
	})
	return result
}

// MonthlyRevenue sums price per calendar month in chronological order.
// Months without sales between the first and last month are reported with
// zero revenue so the line chart has no gaps.
func MonthlyRevenue(sales []models.Sale) []models.MonthlyRevenue {
	if len(sales) == 0 {
		return []models.MonthlyRevenue{}
	}

	totals := make(map[time.Time]decimal.Decimal)
	first, last := monthOf(sales[0].PurchaseDate), monthOf(sales[0].PurchaseDate)
	for _, s := range sales {
		m := monthOf(s.PurchaseDate)
		totals[m] = totals[m].Add(s.Price)
		if m.Before(first) {
			first = m
		}
		if m.After(last) {
			last = m
		}
	}

	result := make([]models.MonthlyRevenue, 0, len(totals))
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		revenue, ok := totals[m]
		if !ok {
			revenue = decimal.Zero
		}
		result = append(result, models.MonthlyRevenue{
			Month:     m,
			Year:      m.Year(),
			MonthName: m.Month().String(),
			Revenue:   revenue,
		})
	}
	return result
}

func monthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// RevenueByCategory sums price per product category, highest first.
func RevenueByCategory(sales []models.Sale) []models.CategoryRevenue {
	result := groupBy(sales,
		func(s models.Sale) string { return s.Category },
		func(s models.Sale) models.CategoryRevenue {
			return models.CategoryRevenue{Category: s.Category, Revenue: decimal.Zero}
		},
		func(g *models.CategoryRevenue, s models.Sale) {
			g.Revenue = g.Revenue.Add(s.Price)
		},
	)
	slices.SortStableFunc(result, func(a, b models.CategoryRevenue) int {
		return b.Revenue.Cmp(a.Revenue)
	})
	return result
}

// SalesCountByState counts sales per state, most sales first.
func SalesCountByState(sales []models.Sale) []models.StateCount {
	result := groupBy(sales, byState,
		func(s models.Sale) models.StateCount {
			return models.StateCount{State: s.State}
		},
		func(g *models.StateCount, s models.Sale) {
			g.Count++
			if g.Location == nil {
				g.Location = s.Location
			}
		},
	)
	slices.SortStableFunc(result, func(a, b models.StateCount) int {
		return b.Count - a.Count
	})
	return result
}

// SellerSummary sums and counts sales per seller in first-seen order.
// Ranking is left to TopSellersByRevenue and TopSellersByCount.
func SellerSummary(sales []models.Sale) []models.SellerStats {
	return groupBy(sales,
		func(s models.Sale) string { return s.Seller },
		func(s models.Sale) models.SellerStats {
			return models.SellerStats{Seller: s.Seller, Revenue: decimal.Zero}
		},
		func(g *models.SellerStats, s models.Sale) {
			g.Revenue = g.Revenue.Add(s.Price)
			g.Count++
		},
	)
}

func TopSellersByRevenue(stats []models.SellerStats, n int) []models.SellerStats {
	return topN(stats, n, func(a, b models.SellerStats) int {
		return b.Revenue.Cmp(a.Revenue)
	})
}

func TopSellersByCount(stats []models.SellerStats, n int) []models.SellerStats {
	return topN(stats, n, func(a, b models.SellerStats) int {
		return b.Count - a.Count
	})
}

// topN sorts a copy of stats and keeps at most n entries.
func topN(stats []models.SellerStats, n int, cmp func(a, b models.SellerStats) int) []models.SellerStats {
	ranked := slices.Clone(stats)
	if ranked == nil {
		ranked = []models.SellerStats{}
	}
	slices.SortStableFunc(ranked, cmp)
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// TotalRevenue sums price over sales.
func TotalRevenue(sales []models.Sale) decimal.Decimal {
	total := decimal.Zero
	for _, s := range sales {
		total = total.Add(s.Price)
	}
	return total
}
