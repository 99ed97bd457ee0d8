// Package postgres implements the listing store on PostgreSQL via sqlx.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	stderrors "propertychat/internal/common/errors"
	"propertychat/internal/common/logger"
	"propertychat/internal/common/metrics"
	"propertychat/internal/models"
)

const listingColumns = `id, name, area, developer, property_type, bedrooms, bathrooms,
	min_price, max_price, area_sqft, floor, status, sale_status, furnished,
	payment_plan, amenities, description`

type Store struct {
	db     *sqlx.DB
	logger logger.Logger
}

func NewStore(db *sqlx.DB, log logger.Logger) *Store {
	return &Store{
		db:     db,
		logger: log.With(map[string]interface{}{"store": "postgres"}),
	}
}

// Search renders the compiled query into one SELECT and returns the ordered
// page. Conditions are rendered in their compiled order so the SQL text is
// stable for identical inputs.
func (s *Store) Search(ctx context.Context, query *models.CompiledQuery, limit int) ([]models.Listing, error) {
	where, args := renderConditions(query.Conditions)

	sql := fmt.Sprintf("SELECT %s FROM listings", listingColumns)
	if where != "" {
		sql += " WHERE " + where
	}
	if orderBy := renderSort(query.Sort); orderBy != "" {
		sql += " ORDER BY " + orderBy
	}
	args = append(args, limit)
	sql += fmt.Sprintf(" LIMIT $%d", len(args))

	var listings []models.Listing
	if err := s.db.SelectContext(ctx, &listings, sql, args...); err != nil {
		code := stderrors.ErrCodeQueryExecutionFailed
		if ctx.Err() == context.DeadlineExceeded {
			code = stderrors.ErrCodeQueryTimeout
		}
		metrics.StoreQueries.WithLabelValues("postgres", "error").Inc()
		s.logger.Error("listing search failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, stderrors.NewStoreQueryError(code, err.Error())
	}

	metrics.StoreQueries.WithLabelValues("postgres", "success").Inc()
	return listings, nil
}

// renderConditions turns compiled conditions into an AND-joined WHERE clause
// with positional args.
func renderConditions(conds []models.Condition) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	next := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	for _, c := range conds {
		switch c.Op {
		case models.OpContains:
			clauses = append(clauses, fmt.Sprintf("%s ILIKE %s", c.Field, next("%"+c.Value.(string)+"%")))
		case models.OpEquals:
			clauses = append(clauses, fmt.Sprintf("%s = %s", c.Field, next(c.Value)))
		case models.OpGTE:
			clauses = append(clauses, fmt.Sprintf("%s >= %s", c.Field, next(c.Value)))
		case models.OpLTE:
			clauses = append(clauses, fmt.Sprintf("%s <= %s", c.Field, next(c.Value)))
		case models.OpContainsAll:
			for _, amenity := range c.Value.([]string) {
				clauses = append(clauses, fmt.Sprintf(
					"EXISTS (SELECT 1 FROM unnest(amenities) a WHERE a ILIKE %s)",
					next("%"+amenity+"%"),
				))
			}
		case models.OpPriceOverlap:
			w := c.Value.(models.PriceWindow)
			min1, max1 := next(w.Min), next(w.Max)
			min2, max2 := next(w.Min), next(w.Max)
			clauses = append(clauses, fmt.Sprintf(
				"((max_price >= %s AND min_price <= %s) OR (min_price >= %s AND min_price <= %s))",
				min1, max1, min2, max2,
			))
		}
	}

	return strings.Join(clauses, " AND "), args
}

func renderSort(sort models.SortSpec) string {
	keys := make([]string, 0, len(sort.Keys))
	for _, k := range sort.Keys {
		dir := "ASC"
		if k.Desc {
			dir = "DESC"
		}
		keys = append(keys, k.Field+" "+dir)
	}
	return strings.Join(keys, ", ")
}

// FilterOptions aggregates the distinct filter values offered as search
// suggestions.
func (s *Store) FilterOptions(ctx context.Context) (*models.FilterOptions, error) {
	opts := &models.FilterOptions{}

	distinct := []struct {
		column string
		dest   *[]string
	}{
		{"area", &opts.Areas},
		{"developer", &opts.Developers},
		{"property_type", &opts.PropertyTypes},
		{"status", &opts.Statuses},
	}
	for _, d := range distinct {
		sql := fmt.Sprintf(
			"SELECT DISTINCT %s FROM listings WHERE %s <> '' ORDER BY %s",
			d.column, d.column, d.column,
		)
		if err := s.db.SelectContext(ctx, d.dest, sql); err != nil {
			metrics.StoreQueries.WithLabelValues("postgres", "error").Inc()
			return nil, stderrors.NewStoreQueryError(stderrors.ErrCodeQueryExecutionFailed, err.Error())
		}
	}

	if err := s.db.SelectContext(ctx, &opts.BedroomOptions,
		"SELECT DISTINCT bedrooms FROM listings WHERE bedrooms > 0 ORDER BY bedrooms"); err != nil {
		metrics.StoreQueries.WithLabelValues("postgres", "error").Inc()
		return nil, stderrors.NewStoreQueryError(stderrors.ErrCodeQueryExecutionFailed, err.Error())
	}

	if err := s.db.GetContext(ctx, &opts.PriceRange,
		"SELECT COALESCE(MIN(min_price), 0) AS min, COALESCE(MAX(max_price), 0) AS max FROM listings"); err != nil {
		metrics.StoreQueries.WithLabelValues("postgres", "error").Inc()
		return nil, stderrors.NewStoreQueryError(stderrors.ErrCodeQueryExecutionFailed, err.Error())
	}

	metrics.StoreQueries.WithLabelValues("postgres", "success").Inc()
	return opts, nil
}
