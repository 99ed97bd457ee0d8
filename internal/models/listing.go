package models

import "github.com/lib/pq"

// Listing is a single property record in the store. The pipeline only ever
// reads listings; all writes happen through the admin surfaces outside this
// service.
type Listing struct {
	ID           string         `db:"id" json:"id"`
	Name         string         `db:"name" json:"name"`
	Area         string         `db:"area" json:"area"`
	Developer    string         `db:"developer" json:"developer"`
	PropertyType string         `db:"property_type" json:"property_type"`
	Bedrooms     int            `db:"bedrooms" json:"bedrooms"`
	Bathrooms    int            `db:"bathrooms" json:"bathrooms"`
	MinPrice     float64        `db:"min_price" json:"min_price"`
	MaxPrice     float64        `db:"max_price" json:"max_price"`
	AreaSqft     float64        `db:"area_sqft" json:"area_sqft"`
	Floor        int            `db:"floor" json:"floor"`
	Status       string         `db:"status" json:"status"`
	SaleStatus   string         `db:"sale_status" json:"sale_status"`
	Furnished    string         `db:"furnished" json:"furnished"`
	PaymentPlan  string         `db:"payment_plan" json:"payment_plan"`
	Amenities    pq.StringArray `db:"amenities" json:"amenities"`
	Description  string         `db:"description" json:"description"`
}
