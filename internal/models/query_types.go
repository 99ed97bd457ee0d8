package models

import "strings"

// ConditionOp enumerates the predicate shapes the query builder can emit.
type ConditionOp string

const (
	// OpContains is a case-insensitive substring match on a text field.
	OpContains ConditionOp = "contains"
	// OpEquals is an exact match on an integer field.
	OpEquals ConditionOp = "equals"
	// OpGTE and OpLTE are one-sided numeric comparisons.
	OpGTE ConditionOp = "gte"
	OpLTE ConditionOp = "lte"
	// OpContainsAll requires every requested amenity to be present,
	// case-insensitively.
	OpContainsAll ConditionOp = "contains_all"
	// OpPriceOverlap matches listings whose own price interval overlaps the
	// requested window, or whose minimum price falls inside it.
	OpPriceOverlap ConditionOp = "price_overlap"
)

// Condition is one compiled predicate on a listing field. All conditions in
// a CompiledQuery are combined with logical AND.
type Condition struct {
	Field string
	Op    ConditionOp
	Value interface{}
}

// PriceWindow is the requested budget for OpPriceOverlap conditions.
type PriceWindow struct {
	Min float64
	Max float64
}

// SortKey orders results by a single listing field.
type SortKey struct {
	Field string
	Desc  bool
}

// SortSpec is the ordered list of sort keys derived from the raw query text.
type SortSpec struct {
	Keys []SortKey
}

// CompiledQuery is the store-ready predicate plus sort order built from one
// FilterRecord. It is constructed once per request and discarded after the
// store call returns.
type CompiledQuery struct {
	Conditions []Condition
	Sort       SortSpec
}

// Matches evaluates the compiled predicate against a listing in memory. The
// store adapters translate the same conditions into SQL or an Elasticsearch
// bool query; this form exists for the predicate contract itself.
func (q *CompiledQuery) Matches(l Listing) bool {
	for _, c := range q.Conditions {
		if !matchCondition(c, l) {
			return false
		}
	}
	return true
}

func matchCondition(c Condition, l Listing) bool {
	switch c.Op {
	case OpContains:
		want, _ := c.Value.(string)
		return strings.Contains(
			strings.ToLower(textField(l, c.Field)),
			strings.ToLower(want),
		)
	case OpEquals:
		want, _ := c.Value.(int)
		return numericField(l, c.Field) == float64(want)
	case OpGTE:
		return numericField(l, c.Field) >= toFloat(c.Value)
	case OpLTE:
		return numericField(l, c.Field) <= toFloat(c.Value)
	case OpContainsAll:
		want, _ := c.Value.([]string)
		for _, a := range want {
			if !hasAmenity(l.Amenities, a) {
				return false
			}
		}
		return true
	case OpPriceOverlap:
		w, _ := c.Value.(PriceWindow)
		overlap := l.MaxPrice >= w.Min && l.MinPrice <= w.Max
		minInside := l.MinPrice >= w.Min && l.MinPrice <= w.Max
		return overlap || minInside
	}
	return false
}

func hasAmenity(amenities []string, want string) bool {
	for _, a := range amenities {
		if strings.Contains(strings.ToLower(a), strings.ToLower(want)) {
			return true
		}
	}
	return false
}

func textField(l Listing, field string) string {
	switch field {
	case "area":
		return l.Area
	case "developer":
		return l.Developer
	case "property_type":
		return l.PropertyType
	case "status":
		return l.Status
	case "sale_status":
		return l.SaleStatus
	case "furnished":
		return l.Furnished
	case "payment_plan":
		return l.PaymentPlan
	case "name":
		return l.Name
	}
	return ""
}

func numericField(l Listing, field string) float64 {
	switch field {
	case "bedrooms":
		return float64(l.Bedrooms)
	case "bathrooms":
		return float64(l.Bathrooms)
	case "min_price":
		return l.MinPrice
	case "max_price":
		return l.MaxPrice
	case "area_sqft":
		return l.AreaSqft
	case "floor":
		return float64(l.Floor)
	}
	return 0
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}
