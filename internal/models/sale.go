package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is one transaction as returned by the provider.
type Sale struct {
	PurchaseDate time.Time
	Seller       string
	State        string
	Category     string
	Price        decimal.Decimal
	Location     *GeoPoint
}

// GeoPoint is nil on a Sale when the provider omitted lat or lon.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type StateRevenue struct {
	State    string          `json:"state"`
	Revenue  decimal.Decimal `json:"revenue"`
	Location *GeoPoint       `json:"location,omitempty"`
}

type MonthlyRevenue struct {
	Month     time.Time       `json:"month"`
	Year      int             `json:"year"`
	MonthName string          `json:"month_name"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type CategoryRevenue struct {
	Category string          `json:"category"`
	Revenue  decimal.Decimal `json:"revenue"`
}

type StateCount struct {
	State    string    `json:"state"`
	Count    int       `json:"count"`
	Location *GeoPoint `json:"location,omitempty"`
}

type SellerStats struct {
	Seller  string          `json:"seller"`
	Revenue decimal.Decimal `json:"revenue"`
	Count   int             `json:"count"`
}

// Aggregates holds the five derived tables of one pipeline run.
type Aggregates struct {
	RevenueByState    []StateRevenue    `json:"revenue_by_state"`
	MonthlyRevenue    []MonthlyRevenue  `json:"monthly_revenue"`
	RevenueByCategory []CategoryRevenue `json:"revenue_by_category"`
	CountByState      []StateCount      `json:"count_by_state"`
	Sellers           []SellerStats     `json:"sellers"`
}
