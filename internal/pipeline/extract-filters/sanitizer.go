// internal/pipeline/extract-filters/sanitizer.go
package extractfilters

import (
	"math"
	"strings"

	"propertychat/internal/models"
)

// Sanitize turns the attacker/LLM-controlled raw filter map into a valid
// FilterRecord. It is pure and total: every malformed field is silently
// dropped, never defaulted, and no input shape can make it fail. Min/max
// ordering is deliberately not enforced; an inverted range passes through
// unchanged.
func Sanitize(raw map[string]interface{}) models.FilterRecord {
	var f models.FilterRecord
	if raw == nil {
		return f
	}

	f.Area = cleanString(raw["area"])
	f.Developer = cleanString(raw["developer"])
	f.PropertyType = cleanString(raw["property_type"])
	f.Status = cleanString(raw["status"])
	f.SaleStatus = cleanString(raw["sale_status"])
	f.Furnished = cleanString(raw["furnished"])
	f.PaymentPlan = cleanString(raw["payment_plan"])

	f.Bedrooms = positiveInt(raw["bedrooms"])
	f.Bathrooms = positiveInt(raw["bathrooms"])

	f.MinPrice = positiveNumber(raw["min_price"])
	f.MaxPrice = positiveNumber(raw["max_price"])
	f.MinAreaSqft = positiveNumber(raw["min_area_sqft"])
	f.MaxAreaSqft = positiveNumber(raw["max_area_sqft"])

	f.Amenities = cleanAmenities(raw["amenities"])
	f.FloorRange = cleanFloorRange(raw["floor_range"])

	return f
}

// cleanString keeps a trimmed non-empty string, otherwise "".
func cleanString(v interface{}) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// positiveInt keeps a strictly positive integer. JSON numbers arrive as
// float64; fractional values are rejected, not rounded.
func positiveInt(v interface{}) *int {
	switch n := v.(type) {
	case float64:
		if n > 0 && n == math.Trunc(n) {
			i := int(n)
			return &i
		}
	case int:
		if n > 0 {
			i := n
			return &i
		}
	}
	return nil
}

// positiveNumber keeps a strictly positive number.
func positiveNumber(v interface{}) *float64 {
	switch n := v.(type) {
	case float64:
		if n > 0 {
			f := n
			return &f
		}
	case int:
		if n > 0 {
			f := float64(n)
			return &f
		}
	}
	return nil
}

// cleanAmenities keeps a non-empty array of trimmed non-empty strings. An
// array that empties out after filtering removes the field entirely.
func cleanAmenities(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok || len(items) == 0 {
		// Already-clean []string inputs pass through (idempotence).
		if ss, ok := v.([]string); ok && len(ss) > 0 {
			items = make([]interface{}, len(ss))
			for i, s := range ss {
				items[i] = s
			}
		} else {
			return nil
		}
	}

	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}

// cleanFloorRange keeps the object only if at least one bound survives.
func cleanFloorRange(v interface{}) *models.FloorRange {
	obj, ok := v.(map[string]interface{})
	if !ok {
		return nil
	}

	fr := models.FloorRange{
		Min: positiveInt(obj["min"]),
		Max: positiveInt(obj["max"]),
	}
	if fr.Min == nil && fr.Max == nil {
		return nil
	}
	return &fr
}
