package services

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"salesdash/internal/errors"
)

const validPayload = `[
  {"Produto": "Livro", "Data da Compra": "01/01/2020", "Vendedor": "Ana", "Local da compra": "SP",
   "Categoria do Produto": "livros", "Preço": 45.9, "Frete": 2.1, "lat": -22.19, "lon": -48.79},
  {"Data da Compra": "5/3/2021", "Vendedor": "Bruno", "Local da compra": "RJ",
   "Categoria do Produto": "moveis", "Preço": 300.10}
]`

func TestLoadSales_Valid(t *testing.T) {
	sales, err := LoadSales([]byte(validPayload))
	if err != nil {
		t.Fatalf("LoadSales() error = %v", err)
	}
	if len(sales) != 2 {
		t.Fatalf("expected 2 sales, got %d", len(sales))
	}

	first := sales[0]
	if !first.PurchaseDate.Equal(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("PurchaseDate = %v", first.PurchaseDate)
	}
	if first.Seller != "Ana" || first.State != "SP" || first.Category != "livros" {
		t.Errorf("unexpected fields %+v", first)
	}
	if !first.Price.Equal(decimal.RequireFromString("45.9")) {
		t.Errorf("Price = %s", first.Price)
	}
	if first.Location == nil || first.Location.Lat != -22.19 || first.Location.Lon != -48.79 {
		t.Errorf("Location = %+v", first.Location)
	}

	second := sales[1]
	if !second.PurchaseDate.Equal(time.Date(2021, 3, 5, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("single-digit day and month should parse, got %v", second.PurchaseDate)
	}
	if second.Location != nil {
		t.Errorf("missing lat/lon should leave Location nil, got %+v", second.Location)
	}
	if !second.Price.Equal(decimal.RequireFromString("300.10")) {
		t.Errorf("Price = %s", second.Price)
	}
}

func TestLoadSales_EmptyArray(t *testing.T) {
	sales, err := LoadSales([]byte(" [] "))
	if err != nil {
		t.Fatalf("LoadSales() error = %v", err)
	}
	if len(sales) != 0 {
		t.Errorf("expected no sales, got %d", len(sales))
	}
}

func TestLoadSales_DecodeErrors(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		wantIndex int
		wantField string
	}{
		{"html page", "<html>maintenance</html>", -1, ""},
		{"empty", "", -1, ""},
		{"null", "null", -1, ""},
		{"object", `{"Vendedor": "Ana"}`, -1, ""},
		{"truncated", `[{"Vendedor": "Ana"`, -1, ""},
		{"missing date", `[{"Vendedor": "Ana", "Local da compra": "SP", "Categoria do Produto": "x", "Preço": 1}]`, 0, fieldPurchaseDate},
		{"null seller", `[{"Data da Compra": "01/01/2020", "Vendedor": null, "Local da compra": "SP", "Categoria do Produto": "x", "Preço": 1}]`, 0, fieldSeller},
		{"missing price on second", `[
			{"Data da Compra": "01/01/2020", "Vendedor": "A", "Local da compra": "SP", "Categoria do Produto": "x", "Preço": 1},
			{"Data da Compra": "01/01/2020", "Vendedor": "B", "Local da compra": "SP", "Categoria do Produto": "x"}]`, 1, fieldPrice},
		{"wrong type", `[{"Data da Compra": "01/01/2020", "Vendedor": 7, "Local da compra": "SP", "Categoria do Produto": "x", "Preço": 1}]`, 0, fieldSeller},
		{"lowercase seller key", `[{"Data da Compra": "01/01/2020", "vendedor": "Ana", "Local da compra": "SP", "Categoria do Produto": "x", "Preço": 1}]`, 0, fieldSeller},
		{"lowercase date key", `[{"data da compra": "01/01/2020", "Vendedor": "Ana", "Local da compra": "SP", "Categoria do Produto": "x", "Preço": 1}]`, 0, fieldPurchaseDate},
		{"quoted price", `[{"Data da Compra": "01/01/2020", "Vendedor": "Ana", "Local da compra": "SP", "Categoria do Produto": "x", "Preço": "10.5"}]`, 0, fieldPrice},
		{"boolean price", `[{"Data da Compra": "01/01/2020", "Vendedor": "Ana", "Local da compra": "SP", "Categoria do Produto": "x", "Preço": true}]`, 0, fieldPrice},
		{"quoted lat", `[{"Data da Compra": "01/01/2020", "Vendedor": "Ana", "Local da compra": "SP", "Categoria do Produto": "x", "Preço": 1, "lat": "-22.1", "lon": -48.7}]`, 0, fieldLat},
		{"record not an object", `[42]`, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sales, err := LoadSales([]byte(tt.payload))
			if sales != nil {
				t.Errorf("expected no partial output, got %d sales", len(sales))
			}

			var decErr *errors.DecodeError
			if !stderrors.As(err, &decErr) {
				t.Fatalf("expected *DecodeError, got %T (%v)", err, err)
			}
			if decErr.Index != tt.wantIndex {
				t.Errorf("Index = %d, want %d", decErr.Index, tt.wantIndex)
			}
			if decErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", decErr.Field, tt.wantField)
			}
			if tt.wantIndex == -1 && decErr.Body != tt.payload {
				t.Errorf("Body = %q, want raw payload", decErr.Body)
			}
		})
	}
}

func TestLoadSales_DateParseError(t *testing.T) {
	tests := []string{"2023-01-01", "31/02/2023", "01/13/2020", "yesterday", ""}

	for _, date := range tests {
		t.Run(date, func(t *testing.T) {
			payload := `[
				{"Data da Compra": "01/01/2020", "Vendedor": "A", "Local da compra": "SP", "Categoria do Produto": "x", "Preço": 1},
				{"Data da Compra": "` + date + `", "Vendedor": "B", "Local da compra": "SP", "Categoria do Produto": "x", "Preço": 1}]`

			sales, err := LoadSales([]byte(payload))
			if sales != nil {
				t.Errorf("expected no partial output, got %d sales", len(sales))
			}

			var dateErr *errors.DateParseError
			if !stderrors.As(err, &dateErr) {
				t.Fatalf("expected *DateParseError, got %T (%v)", err, err)
			}
			if dateErr.Index != 1 || dateErr.Value != date {
				t.Errorf("unexpected error details %+v", dateErr)
			}
		})
	}
}
