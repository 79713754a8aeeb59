package services

import (
	"time"

	"github.com/shopspring/decimal"

	"salesdash/internal/models"
)

func newSale(date, seller, state, category, price string) models.Sale {
	d, err := time.Parse("02/01/2006", date)
	if err != nil {
		panic(err)
	}
	return models.Sale{
		PurchaseDate: d,
		Seller:       seller,
		State:        state,
		Category:     category,
		Price:        decimal.RequireFromString(price),
	}
}

func at(s models.Sale, lat, lon float64) models.Sale {
	s.Location = &models.GeoPoint{Lat: lat, Lon: lon}
	return s
}

// fixtureSales has ties in revenue and count on purpose.
func fixtureSales() []models.Sale {
	return []models.Sale{
		at(newSale("15/01/2020", "Ana", "SP", "eletronicos", "1500.10"), -22.19, -48.79),
		at(newSale("20/01/2020", "Bruno", "RJ", "moveis", "300.00"), -22.25, -42.66),
		at(newSale("03/03/2020", "Ana", "SP", "livros", "45.50"), -22.19, -48.79),
		newSale("11/03/2020", "Carla", "MG", "moveis", "800.00"),
		at(newSale("11/03/2020", "Carla", "MG", "livros", "0.40"), -18.10, -44.38),
		at(newSale("02/01/2021", "Bruno", "RJ", "eletronicos", "500.00"), -22.25, -42.66),
	}
}

func revenueSum[T any](rows []T, revenue func(T) decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(revenue(r))
	}
	return total
}
