// internal/pipeline/select-listings/models.go
package selectlistings

import "propertychat/internal/models"

type Input struct {
	Query models.CompiledQuery
}

// Output carries the visible page plus the full match count (capped at the
// fetch limit), which the synthesizer reports as total_found.
type Output struct {
	Listings   []models.Listing
	TotalFound int
}
