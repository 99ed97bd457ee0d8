package models

// PriceEnvelope spans the inventory's price range: the lowest starting
// price to the highest asking price across all listings.
type PriceEnvelope struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// FilterOptions holds the distinct filter values the frontend offers as
// suggestions. Aggregated from the store and cached briefly.
type FilterOptions struct {
	Areas          []string      `json:"areas"`
	Developers     []string      `json:"developers"`
	PropertyTypes  []string      `json:"property_types"`
	Statuses       []string      `json:"statuses"`
	BedroomOptions []int         `json:"bedroom_options"`
	PriceRange     PriceEnvelope `json:"price_range"`
}
