// internal/pipeline/build-query/handler.go
package buildquery

import (
	"context"
	"strings"
	"time"

	"propertychat/internal/common/logger"
	"propertychat/internal/common/metrics"
	"propertychat/internal/models"
)

const StageName = "build-query"

type Handler struct {
	logger logger.Logger
}

func NewHandler(log logger.Logger) *Handler {
	return &Handler{
		logger: log.With(map[string]interface{}{"stage": StageName}),
	}
}

// Execute compiles the sanitized filters and the raw query text into a
// store-ready query. The stage is deterministic and total: the same input
// always produces the same compiled query, in the same condition order.
func (h *Handler) Execute(_ context.Context, input *Input) *Output {
	start := time.Now()
	defer func() {
		metrics.PipelineStageDuration.WithLabelValues(StageName).Observe(time.Since(start).Seconds())
	}()

	query := models.CompiledQuery{
		Conditions: buildConditions(input.Filters),
		Sort:       DeriveSort(input.Query),
	}
	metrics.PipelineStageCompleted.WithLabelValues(StageName).Inc()

	h.logger.Debug("query compiled", map[string]interface{}{
		"conditions": len(query.Conditions),
		"filters":    input.Filters.Describe(),
	})

	return &Output{Query: query}
}

// buildConditions emits conditions in a fixed field order so the compiled
// query, and the SQL the store renders from it, are stable across requests.
func buildConditions(f models.FilterRecord) []models.Condition {
	var conds []models.Condition

	text := []struct {
		field string
		value string
	}{
		{"area", f.Area},
		{"developer", f.Developer},
		{"property_type", f.PropertyType},
		{"status", f.Status},
		{"sale_status", f.SaleStatus},
		{"furnished", f.Furnished},
		{"payment_plan", f.PaymentPlan},
	}
	for _, t := range text {
		if t.value != "" {
			conds = append(conds, models.Condition{Field: t.field, Op: models.OpContains, Value: t.value})
		}
	}

	if f.Bedrooms != nil {
		conds = append(conds, models.Condition{Field: "bedrooms", Op: models.OpEquals, Value: *f.Bedrooms})
	}
	if f.Bathrooms != nil {
		conds = append(conds, models.Condition{Field: "bathrooms", Op: models.OpEquals, Value: *f.Bathrooms})
	}

	conds = append(conds, priceConditions(f)...)

	if f.MinAreaSqft != nil {
		conds = append(conds, models.Condition{Field: "area_sqft", Op: models.OpGTE, Value: *f.MinAreaSqft})
	}
	if f.MaxAreaSqft != nil {
		conds = append(conds, models.Condition{Field: "area_sqft", Op: models.OpLTE, Value: *f.MaxAreaSqft})
	}

	if f.FloorRange != nil {
		if f.FloorRange.Min != nil {
			conds = append(conds, models.Condition{Field: "floor", Op: models.OpGTE, Value: *f.FloorRange.Min})
		}
		if f.FloorRange.Max != nil {
			conds = append(conds, models.Condition{Field: "floor", Op: models.OpLTE, Value: *f.FloorRange.Max})
		}
	}

	if len(f.Amenities) > 0 {
		conds = append(conds, models.Condition{Field: "amenities", Op: models.OpContainsAll, Value: f.Amenities})
	}

	return conds
}

// priceConditions maps the requested budget onto listing price intervals.
// With both bounds set, the listing's own [min_price, max_price] interval
// must overlap the requested window. A lone minimum only demands the listing
// reaches up to it; a lone maximum only that the listing starts below it.
func priceConditions(f models.FilterRecord) []models.Condition {
	switch {
	case f.MinPrice != nil && f.MaxPrice != nil:
		return []models.Condition{{
			Field: "price",
			Op:    models.OpPriceOverlap,
			Value: models.PriceWindow{Min: *f.MinPrice, Max: *f.MaxPrice},
		}}
	case f.MinPrice != nil:
		return []models.Condition{{Field: "max_price", Op: models.OpGTE, Value: *f.MinPrice}}
	case f.MaxPrice != nil:
		return []models.Condition{{Field: "min_price", Op: models.OpLTE, Value: *f.MaxPrice}}
	}
	return nil
}

// sortRules are checked in order; the first keyword family found in the query
// text wins.
var sortRules = []struct {
	keywords []string
	keys     []models.SortKey
}{
	{
		keywords: []string{"cheapest", "budget", "affordable"},
		keys:     []models.SortKey{{Field: "min_price"}},
	},
	{
		keywords: []string{"expensive", "luxury", "premium"},
		keys:     []models.SortKey{{Field: "min_price", Desc: true}},
	},
	{
		keywords: []string{"biggest", "largest", "spacious"},
		keys:     []models.SortKey{{Field: "area_sqft", Desc: true}},
	},
	{
		keywords: []string{"small", "compact"},
		keys:     []models.SortKey{{Field: "area_sqft"}},
	},
	{
		keywords: []string{"ready", "immediate"},
		keys:     []models.SortKey{{Field: "status"}, {Field: "min_price"}},
	},
}

var defaultSort = models.SortSpec{
	Keys: []models.SortKey{{Field: "status"}, {Field: "min_price"}},
}

// DeriveSort picks the result ordering from keywords in the raw query text.
// Queries without a recognized keyword sort ready-first, then cheapest.
func DeriveSort(rawQuery string) models.SortSpec {
	lowered := strings.ToLower(rawQuery)
	for _, rule := range sortRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lowered, kw) {
				return models.SortSpec{Keys: rule.keys}
			}
		}
	}
	return defaultSort
}
