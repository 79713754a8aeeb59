package models

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
)

// Selection is either "all" or one specific value.
type Selection[T comparable] struct {
	value T
	set   bool
}

func All[T comparable]() Selection[T] {
	return Selection[T]{}
}

func Only[T comparable](v T) Selection[T] {
	return Selection[T]{value: v, set: true}
}

func (s Selection[T]) Get() (T, bool) {
	return s.value, s.set
}

func (s Selection[T]) IsAll() bool {
	return !s.set
}

func (s Selection[T]) MarshalJSON() ([]byte, error) {
	if !s.set {
		return []byte("null"), nil
	}
	return json.Marshal(s.value)
}

type Region string

const (
	RegionBrazil    Region = "Brasil"
	RegionMidwest   Region = "Centro-Oeste"
	RegionNortheast Region = "Nordeste"
	RegionNorth     Region = "Norte"
	RegionSoutheast Region = "Sudeste"
	RegionSouth     Region = "Sul"
)

// Regions lists the selectable regions in sidebar order. RegionBrazil means all.
var Regions = []Region{
	RegionBrazil,
	RegionMidwest,
	RegionNortheast,
	RegionNorth,
	RegionSoutheast,
	RegionSouth,
}

// ParseRegion maps a user-supplied name to a region selection. Matching is
// case-insensitive; the empty string and RegionBrazil select all regions.
func ParseRegion(name string) (Selection[Region], bool) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, string(RegionBrazil)) {
		return All[Region](), true
	}
	for _, r := range Regions {
		if strings.EqualFold(name, string(r)) {
			return Only(r), true
		}
	}
	return All[Region](), false
}

// Query is what the provider is asked for.
type Query struct {
	Region Selection[Region]
	Year   Selection[int]
}

// Values renders the provider query parameters. Unset filters are sent empty.
func (q Query) Values() url.Values {
	values := url.Values{}
	values.Set("regiao", "")
	values.Set("ano", "")
	if r, ok := q.Region.Get(); ok {
		values.Set("regiao", strings.ToLower(string(r)))
	}
	if y, ok := q.Year.Get(); ok {
		values.Set("ano", strconv.Itoa(y))
	}
	return values
}
