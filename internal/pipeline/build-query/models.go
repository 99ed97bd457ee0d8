// internal/pipeline/build-query/models.go
package buildquery

import "propertychat/internal/models"

// Input carries the sanitized filters plus the raw query text, which still
// drives sort-order derivation.
type Input struct {
	Query   string
	Filters models.FilterRecord
}

type Output struct {
	Query models.CompiledQuery
}
