package services

import "salesdash/internal/models"

// FilterSellers returns the sales made by one of sellers, in input order.
// An empty sellers list returns sales unchanged.
func FilterSellers(sales []models.Sale, sellers []string) []models.Sale {
	if len(sellers) == 0 {
		return sales
	}

	allowed := make(map[string]struct{}, len(sellers))
	for _, s := range sellers {
		allowed[s] = struct{}{}
	}

	filtered := make([]models.Sale, 0, len(sales))
	for _, sale := range sales {
		if _, ok := allowed[sale.Seller]; ok {
			filtered = append(filtered, sale)
		}
	}
	return filtered
}

// Sellers lists distinct seller names in first-seen order.
func Sellers(sales []models.Sale) []string {
	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, sale := range sales {
		if _, ok := seen[sale.Seller]; ok {
			continue
		}
		seen[sale.Seller] = struct{}{}
		names = append(names, sale.Seller)
	}
	return names
}
