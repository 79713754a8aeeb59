package services

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const CurrencyPrefix = "R$ "

var thousand = decimal.NewFromInt(1000)

// FormatNumber scales value for display: below 1000 it is printed as is,
// below a million in thousands, otherwise in millions. Two decimals always;
// the unit is picked after rounding, so 999.995 reads "1.00 thousand".
//
//	FormatNumber(500, "")     -> "500.00 "
//	FormatNumber(1500, "")    -> "1.50 thousand"
//	FormatNumber(2500000, "") -> "2.50 million"
func FormatNumber(value decimal.Decimal, prefix string) string {
	for _, unit := range []string{"", "thousand"} {
		if value.Round(2).LessThan(thousand) {
			return fmt.Sprintf("%s%s %s", prefix, value.StringFixed(2), unit)
		}
		value = value.Div(thousand)
	}
	return fmt.Sprintf("%s%s million", prefix, value.StringFixed(2))
}

func FormatCount(n int) string {
	return FormatNumber(decimal.NewFromInt(int64(n)), "")
}
