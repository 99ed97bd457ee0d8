// internal/pipeline/synthesize-response/models.go
package synthesizeresponse

import "propertychat/internal/models"

// Input carries whichever pipeline outputs the intent branch needs. Listings
// and filters are only populated for property searches.
type Input struct {
	Query      string
	Intent     models.QueryIntent
	Filters    models.FilterRecord
	Listings   []models.Listing
	TotalFound int
}

type Output struct {
	Message string
}
