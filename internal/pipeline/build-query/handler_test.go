// internal/pipeline/build-query/handler_test.go
package buildquery

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propertychat/internal/common/logger"
	"propertychat/internal/models"
)

func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }

func TestBuildConditions(t *testing.T) {
	tests := []struct {
		name     string
		filters  models.FilterRecord
		expected []models.Condition
	}{
		{
			name:     "empty filters compile to no conditions",
			filters:  models.FilterRecord{},
			expected: nil,
		},
		{
			name: "text and count filters",
			filters: models.FilterRecord{
				Area:         "Damac Hills",
				PropertyType: "Villa",
				Bedrooms:     intPtr(3),
			},
			expected: []models.Condition{
				{Field: "area", Op: models.OpContains, Value: "Damac Hills"},
				{Field: "property_type", Op: models.OpContains, Value: "Villa"},
				{Field: "bedrooms", Op: models.OpEquals, Value: 3},
			},
		},
		{
			name: "bedroom count and type compile with no extra constraints",
			filters: models.FilterRecord{
				PropertyType: "Villa",
				Bedrooms:     intPtr(3),
			},
			expected: []models.Condition{
				{Field: "property_type", Op: models.OpContains, Value: "Villa"},
				{Field: "bedrooms", Op: models.OpEquals, Value: 3},
			},
		},
		{
			name: "two-sided budget becomes a price overlap window",
			filters: models.FilterRecord{
				MinPrice: floatPtr(1000000),
				MaxPrice: floatPtr(2000000),
			},
			expected: []models.Condition{
				{Field: "price", Op: models.OpPriceOverlap, Value: models.PriceWindow{Min: 1000000, Max: 2000000}},
			},
		},
		{
			name:    "minimum only constrains the listing ceiling",
			filters: models.FilterRecord{MinPrice: floatPtr(1000000)},
			expected: []models.Condition{
				{Field: "max_price", Op: models.OpGTE, Value: 1000000.0},
			},
		},
		{
			name:    "maximum only constrains the listing floor price",
			filters: models.FilterRecord{MaxPrice: floatPtr(2000000)},
			expected: []models.Condition{
				{Field: "min_price", Op: models.OpLTE, Value: 2000000.0},
			},
		},
		{
			name: "area, floor and amenity constraints",
			filters: models.FilterRecord{
				MinAreaSqft: floatPtr(1500),
				FloorRange:  &models.FloorRange{Min: intPtr(10), Max: intPtr(20)},
				Amenities:   []string{"Gym", "Parking"},
			},
			expected: []models.Condition{
				{Field: "area_sqft", Op: models.OpGTE, Value: 1500.0},
				{Field: "floor", Op: models.OpGTE, Value: 10},
				{Field: "floor", Op: models.OpLTE, Value: 20},
				{Field: "amenities", Op: models.OpContainsAll, Value: []string{"Gym", "Parking"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, buildConditions(tt.filters))
		})
	}
}

func TestDeriveSort(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected models.SortSpec
	}{
		{
			name:     "cheapest sorts ascending by price",
			query:    "cheapest apartments in JVC",
			expected: models.SortSpec{Keys: []models.SortKey{{Field: "min_price"}}},
		},
		{
			name:     "luxury sorts descending by price",
			query:    "luxury penthouses in Palm Jumeirah",
			expected: models.SortSpec{Keys: []models.SortKey{{Field: "min_price", Desc: true}}},
		},
		{
			name:     "spacious sorts descending by size",
			query:    "spacious villas",
			expected: models.SortSpec{Keys: []models.SortKey{{Field: "area_sqft", Desc: true}}},
		},
		{
			name:     "compact sorts ascending by size",
			query:    "compact studio",
			expected: models.SortSpec{Keys: []models.SortKey{{Field: "area_sqft"}}},
		},
		{
			name:     "ready prefers ready listings then price",
			query:    "ready to move in options",
			expected: models.SortSpec{Keys: []models.SortKey{{Field: "status"}, {Field: "min_price"}}},
		},
		{
			name:     "no keyword falls back to the default order",
			query:    "3 bedroom villa in Damac Hills",
			expected: models.SortSpec{Keys: []models.SortKey{{Field: "status"}, {Field: "min_price"}}},
		},
		{
			name:     "cheap alone is not a sort keyword",
			query:    "cheap apartment",
			expected: models.SortSpec{Keys: []models.SortKey{{Field: "status"}, {Field: "min_price"}}},
		},
		{
			name:     "small wins over the non-keyword cheap",
			query:    "small cheap apartment",
			expected: models.SortSpec{Keys: []models.SortKey{{Field: "area_sqft"}}},
		},
		{
			name:     "most expensive hits the expensive family",
			query:    "most expensive penthouse",
			expected: models.SortSpec{Keys: []models.SortKey{{Field: "min_price", Desc: true}}},
		},
		{
			name:     "keyword match is case-insensitive",
			query:    "CHEAPEST options please",
			expected: models.SortSpec{Keys: []models.SortKey{{Field: "min_price"}}},
		},
		{
			name:     "earlier rule wins when keywords collide",
			query:    "cheapest ready apartments",
			expected: models.SortSpec{Keys: []models.SortKey{{Field: "min_price"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DeriveSort(tt.query))
		})
	}
}

func TestHandler_Execute_Deterministic(t *testing.T) {
	h := NewHandler(logger.NewNoOpLogger())
	input := &Input{
		Query: "cheapest 3 bedroom villa in Damac Hills with gym",
		Filters: models.FilterRecord{
			Area:         "Damac Hills",
			PropertyType: "Villa",
			Bedrooms:     intPtr(3),
			Amenities:    []string{"Gym"},
		},
	}

	first := h.Execute(context.Background(), input)
	second := h.Execute(context.Background(), input)

	require.NotNil(t, first)
	assert.Equal(t, first.Query, second.Query)
	assert.Equal(t, models.SortSpec{Keys: []models.SortKey{{Field: "min_price"}}}, first.Query.Sort)
}

func TestCompiledQueryMatchesListing(t *testing.T) {
	h := NewHandler(logger.NewNoOpLogger())
	out := h.Execute(context.Background(), &Input{
		Query: "villa between 1M and 3M",
		Filters: models.FilterRecord{
			PropertyType: "Villa",
			MinPrice:     floatPtr(1000000),
			MaxPrice:     floatPtr(3000000),
		},
	})

	matching := models.Listing{
		PropertyType: "Villa",
		MinPrice:     2500000,
		MaxPrice:     4000000,
	}
	outOfBudget := models.Listing{
		PropertyType: "Villa",
		MinPrice:     5000000,
		MaxPrice:     8000000,
	}
	wrongType := models.Listing{
		PropertyType: "Apartment",
		MinPrice:     1500000,
		MaxPrice:     2000000,
	}

	assert.True(t, out.Query.Matches(matching))
	assert.False(t, out.Query.Matches(outOfBudget))
	assert.False(t, out.Query.Matches(wrongType))
}
