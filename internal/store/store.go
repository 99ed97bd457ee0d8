// Package store defines the listing persistence contract shared by the
// postgres and elasticsearch backends.
package store

import (
	"context"

	"propertychat/internal/models"
)

// ListingStore is implemented by each search backend. Search returns up to
// limit listings satisfying every condition in the compiled query, ordered
// by its sort spec. Zero matches is a normal empty result, not an error.
type ListingStore interface {
	Search(ctx context.Context, query *models.CompiledQuery, limit int) ([]models.Listing, error)
	FilterOptions(ctx context.Context) (*models.FilterOptions, error)
}
