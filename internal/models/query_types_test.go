package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompiledQueryMatches(t *testing.T) {
	listing := Listing{
		Name:         "Golf Vista",
		Area:         "Damac Hills",
		Developer:    "DAMAC",
		PropertyType: "Villa",
		Bedrooms:     3,
		MinPrice:     2500000,
		MaxPrice:     3200000,
		AreaSqft:     2400,
		Floor:        2,
		Amenities:    []string{"Swimming Pool", "Gym"},
	}

	tests := []struct {
		name     string
		cond     Condition
		expected bool
	}{
		{
			name:     "contains is case-insensitive substring",
			cond:     Condition{Field: "area", Op: OpContains, Value: "damac"},
			expected: true,
		},
		{
			name:     "contains misses a different area",
			cond:     Condition{Field: "area", Op: OpContains, Value: "Marina"},
			expected: false,
		},
		{
			name:     "equals on bedrooms",
			cond:     Condition{Field: "bedrooms", Op: OpEquals, Value: 3},
			expected: true,
		},
		{
			name:     "equals rejects a different count",
			cond:     Condition{Field: "bedrooms", Op: OpEquals, Value: 4},
			expected: false,
		},
		{
			name:     "gte on area",
			cond:     Condition{Field: "area_sqft", Op: OpGTE, Value: 2000.0},
			expected: true,
		},
		{
			name:     "lte on floor",
			cond:     Condition{Field: "floor", Op: OpLTE, Value: 1},
			expected: false,
		},
		{
			name:     "contains_all matches amenity substrings",
			cond:     Condition{Field: "amenities", Op: OpContainsAll, Value: []string{"pool", "gym"}},
			expected: true,
		},
		{
			name:     "contains_all fails on one missing amenity",
			cond:     Condition{Field: "amenities", Op: OpContainsAll, Value: []string{"Gym", "Sauna"}},
			expected: false,
		},
		{
			name:     "price window overlapping the listing interval",
			cond:     Condition{Field: "price", Op: OpPriceOverlap, Value: PriceWindow{Min: 3000000, Max: 5000000}},
			expected: true,
		},
		{
			name:     "price window below the listing interval",
			cond:     Condition{Field: "price", Op: OpPriceOverlap, Value: PriceWindow{Min: 1000000, Max: 2000000}},
			expected: false,
		},
		{
			name:     "listing minimum inside the window",
			cond:     Condition{Field: "price", Op: OpPriceOverlap, Value: PriceWindow{Min: 2000000, Max: 2600000}},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := CompiledQuery{Conditions: []Condition{tt.cond}}
			assert.Equal(t, tt.expected, q.Matches(listing))
		})
	}
}

func TestCompiledQueryMatches_ConditionsAreANDed(t *testing.T) {
	listing := Listing{Area: "Damac Hills", Bedrooms: 3}

	q := CompiledQuery{Conditions: []Condition{
		{Field: "area", Op: OpContains, Value: "Damac"},
		{Field: "bedrooms", Op: OpEquals, Value: 4},
	}}
	assert.False(t, q.Matches(listing))

	q.Conditions[1].Value = 3
	assert.True(t, q.Matches(listing))
}

func TestCompiledQueryMatches_EmptyQueryMatchesEverything(t *testing.T) {
	q := CompiledQuery{}
	assert.True(t, q.Matches(Listing{}))
	assert.True(t, q.Matches(Listing{Name: "Anything"}))
}
