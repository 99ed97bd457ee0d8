// internal/pipeline/extract-filters/models.go
package extractfilters

import "propertychat/internal/models"

type Input struct {
	Query string `json:"query"`
}

type Output struct {
	Filters models.FilterRecord `json:"filters"`
}
