package models

import (
	"encoding/json"
	"testing"
)

func TestParseRegion(t *testing.T) {
	tests := []struct {
		input  string
		want   Region
		all    bool
		wantOK bool
	}{
		{"", "", true, true},
		{"Brasil", "", true, true},
		{"brasil", "", true, true},
		{"Sudeste", RegionSoutheast, false, true},
		{"  centro-oeste ", RegionMidwest, false, true},
		{"NORTE", RegionNorth, false, true},
		{"Atlantida", "", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			sel, ok := ParseRegion(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseRegion(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if sel.IsAll() != tt.all {
				t.Errorf("IsAll() = %v, want %v", sel.IsAll(), tt.all)
			}
			if got, _ := sel.Get(); got != tt.want {
				t.Errorf("Get() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestQuery_Values(t *testing.T) {
	tests := []struct {
		name       string
		query      Query
		wantRegion string
		wantYear   string
	}{
		{"everything", Query{}, "", ""},
		{"region only", Query{Region: Only(RegionNortheast)}, "nordeste", ""},
		{"year only", Query{Year: Only(2022)}, "", "2022"},
		{"both", Query{Region: Only(RegionSouth), Year: Only(2020)}, "sul", "2020"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.query.Values()
			if _, ok := v["regiao"]; !ok {
				t.Error("regiao must always be sent")
			}
			if _, ok := v["ano"]; !ok {
				t.Error("ano must always be sent")
			}
			if v.Get("regiao") != tt.wantRegion || v.Get("ano") != tt.wantYear {
				t.Errorf("Values() = %v", v)
			}
		})
	}
}

func TestSelection_MarshalJSON(t *testing.T) {
	type payload struct {
		Region Selection[Region] `json:"region"`
		Year   Selection[int]    `json:"year"`
	}

	b, err := json.Marshal(payload{Region: All[Region](), Year: Only(2021)})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"region":null,"year":2021}` {
		t.Errorf("unexpected JSON %s", b)
	}
}

func TestDashboard_View(t *testing.T) {
	d := &Dashboard{Views: []View{{Key: ViewRevenue}, {Key: ViewSellers, Title: "Sellers"}}}

	v, ok := d.View(ViewSellers)
	if !ok || v.Title != "Sellers" {
		t.Errorf("View(sellers) = %+v, %v", v, ok)
	}
	if _, ok := d.View(ViewSalesCount); ok {
		t.Error("missing view should not be found")
	}
}
