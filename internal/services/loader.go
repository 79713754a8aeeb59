package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"salesdash/internal/errors"
	"salesdash/internal/models"
)

// PurchaseDateLayout is dd/mm/yyyy. Single-digit day and month are accepted.
const PurchaseDateLayout = "2/1/2006"

const (
	fieldPurchaseDate = "Data da Compra"
	fieldSeller       = "Vendedor"
	fieldState        = "Local da compra"
	fieldCategory     = "Categoria do Produto"
	fieldPrice        = "Preço"
)

const (
	fieldLat = "lat"
	fieldLon = "lon"
)

// LoadSales decodes the provider payload. It fails with *errors.DecodeError
// when the payload is not an array of complete records and with
// *errors.DateParseError when a purchase date is not dd/mm/yyyy.
func LoadSales(payload []byte) ([]models.Sale, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &errors.DecodeError{
			Index: -1,
			Body:  string(payload),
			Cause: fmt.Errorf("payload is not a JSON array"),
		}
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, &errors.DecodeError{Index: -1, Body: string(payload), Cause: err}
	}

	sales := make([]models.Sale, 0, len(raw))
	for i, msg := range raw {
		sale, err := decodeSale(i, msg)
		if err != nil {
			return nil, err
		}
		sales = append(sales, sale)
	}
	return sales, nil
}

// decodeSale reads one record. Field names must match exactly; a null value
// counts as missing.
func decodeSale(i int, msg json.RawMessage) (models.Sale, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(msg, &fields); err != nil {
		return models.Sale{}, &errors.DecodeError{Index: i, Cause: err}
	}

	var sale models.Sale
	var date string
	for _, f := range []struct {
		name string
		dst  *string
	}{
		{fieldPurchaseDate, &date},
		{fieldSeller, &sale.Seller},
		{fieldState, &sale.State},
		{fieldCategory, &sale.Category},
	} {
		if err := decodeField(i, fields, f.name, f.dst); err != nil {
			return models.Sale{}, err
		}
	}

	price, err := decodePrice(i, fields)
	if err != nil {
		return models.Sale{}, err
	}
	sale.Price = price

	sale.PurchaseDate, err = time.Parse(PurchaseDateLayout, strings.TrimSpace(date))
	if err != nil {
		return models.Sale{}, &errors.DateParseError{
			Index:  i,
			Value:  date,
			Layout: "dd/mm/yyyy",
			Cause:  err,
		}
	}

	lat, latOK, err := optionalFloat(i, fields, fieldLat)
	if err != nil {
		return models.Sale{}, err
	}
	lon, lonOK, err := optionalFloat(i, fields, fieldLon)
	if err != nil {
		return models.Sale{}, err
	}
	if latOK && lonOK {
		sale.Location = &models.GeoPoint{Lat: lat, Lon: lon}
	}
	return sale, nil
}

func present(fields map[string]json.RawMessage, name string) (json.RawMessage, bool) {
	raw, ok := fields[name]
	if !ok || string(bytes.TrimSpace(raw)) == "null" {
		return nil, false
	}
	return raw, true
}

func decodeField(i int, fields map[string]json.RawMessage, name string, dst *string) error {
	raw, ok := present(fields, name)
	if !ok {
		return &errors.DecodeError{Index: i, Field: name}
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return &errors.DecodeError{Index: i, Field: name, Cause: err}
	}
	return nil
}

// decodePrice only accepts a JSON number.
func decodePrice(i int, fields map[string]json.RawMessage) (decimal.Decimal, error) {
	raw, ok := present(fields, fieldPrice)
	if !ok {
		return decimal.Decimal{}, &errors.DecodeError{Index: i, Field: fieldPrice}
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil || bytes.HasPrefix(bytes.TrimSpace(raw), []byte(`"`)) {
		if err == nil {
			err = fmt.Errorf("price must be a number, got %s", raw)
		}
		return decimal.Decimal{}, &errors.DecodeError{Index: i, Field: fieldPrice, Cause: err}
	}

	price, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Decimal{}, &errors.DecodeError{Index: i, Field: fieldPrice, Cause: err}
	}
	return price, nil
}

func optionalFloat(i int, fields map[string]json.RawMessage, name string) (float64, bool, error) {
	raw, ok := present(fields, name)
	if !ok {
		return 0, false, nil
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false, &errors.DecodeError{Index: i, Field: name, Cause: err}
	}
	return v, true, nil
}
