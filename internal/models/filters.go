package models

import (
	"fmt"
	"sort"
	"strings"
)

// FilterRecord is the sanitized, sparse set of search constraints extracted
// from a user query. A nil/absent field means "unconstrained"; every present
// numeric field is strictly positive. Records are request-scoped values and
// are never mutated after the sanitizer returns them.
type FilterRecord struct {
	Area         string      `json:"area,omitempty"`
	Developer    string      `json:"developer,omitempty"`
	PropertyType string      `json:"property_type,omitempty"`
	Status       string      `json:"status,omitempty"`
	SaleStatus   string      `json:"sale_status,omitempty"`
	Furnished    string      `json:"furnished,omitempty"`
	PaymentPlan  string      `json:"payment_plan,omitempty"`
	Bedrooms     *int        `json:"bedrooms,omitempty"`
	Bathrooms    *int        `json:"bathrooms,omitempty"`
	MinPrice     *float64    `json:"min_price,omitempty"`
	MaxPrice     *float64    `json:"max_price,omitempty"`
	MinAreaSqft  *float64    `json:"min_area_sqft,omitempty"`
	MaxAreaSqft  *float64    `json:"max_area_sqft,omitempty"`
	Amenities    []string    `json:"amenities,omitempty"`
	FloorRange   *FloorRange `json:"floor_range,omitempty"`
}

// FloorRange bounds the listing floor. At least one side is set whenever the
// struct is present.
type FloorRange struct {
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
}

// IsEmpty reports whether no constraint survived sanitization.
func (f FilterRecord) IsEmpty() bool {
	return f.Area == "" && f.Developer == "" && f.PropertyType == "" &&
		f.Status == "" && f.SaleStatus == "" && f.Furnished == "" &&
		f.PaymentPlan == "" && f.Bedrooms == nil && f.Bathrooms == nil &&
		f.MinPrice == nil && f.MaxPrice == nil &&
		f.MinAreaSqft == nil && f.MaxAreaSqft == nil &&
		len(f.Amenities) == 0 && f.FloorRange == nil
}

// Describe renders the applied filters for prompts and logs, e.g.
// "area: Damac Hills, bedrooms: 3". Returns "No specific filters" when empty.
func (f FilterRecord) Describe() string {
	parts := map[string]string{}
	if f.Area != "" {
		parts["area"] = f.Area
	}
	if f.Developer != "" {
		parts["developer"] = f.Developer
	}
	if f.PropertyType != "" {
		parts["property_type"] = f.PropertyType
	}
	if f.Status != "" {
		parts["status"] = f.Status
	}
	if f.SaleStatus != "" {
		parts["sale_status"] = f.SaleStatus
	}
	if f.Furnished != "" {
		parts["furnished"] = f.Furnished
	}
	if f.PaymentPlan != "" {
		parts["payment_plan"] = f.PaymentPlan
	}
	if f.Bedrooms != nil {
		parts["bedrooms"] = fmt.Sprintf("%d", *f.Bedrooms)
	}
	if f.Bathrooms != nil {
		parts["bathrooms"] = fmt.Sprintf("%d", *f.Bathrooms)
	}
	if f.MinPrice != nil {
		parts["min_price"] = trimFloat(*f.MinPrice)
	}
	if f.MaxPrice != nil {
		parts["max_price"] = trimFloat(*f.MaxPrice)
	}
	if f.MinAreaSqft != nil {
		parts["min_area_sqft"] = trimFloat(*f.MinAreaSqft)
	}
	if f.MaxAreaSqft != nil {
		parts["max_area_sqft"] = trimFloat(*f.MaxAreaSqft)
	}
	if len(f.Amenities) > 0 {
		parts["amenities"] = strings.Join(f.Amenities, ", ")
	}
	if f.FloorRange != nil {
		var fr []string
		if f.FloorRange.Min != nil {
			fr = append(fr, fmt.Sprintf("min %d", *f.FloorRange.Min))
		}
		if f.FloorRange.Max != nil {
			fr = append(fr, fmt.Sprintf("max %d", *f.FloorRange.Max))
		}
		parts["floor_range"] = strings.Join(fr, ", ")
	}

	if len(parts) == 0 {
		return "No specific filters"
	}

	keys := make([]string, 0, len(parts))
	for k := range parts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rendered := make([]string, 0, len(keys))
	for _, k := range keys {
		rendered = append(rendered, k+": "+parts[k])
	}
	return strings.Join(rendered, ", ")
}

func trimFloat(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
