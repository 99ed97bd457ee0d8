// internal/store/elasticsearch/query.go
package elasticsearch

import "propertychat/internal/models"

// buildSearchBody translates a compiled query into an Elasticsearch bool
// query with sort. Text containment uses case-insensitive wildcards to match
// the substring semantics of the SQL backend.
func buildSearchBody(query *models.CompiledQuery) map[string]interface{} {
	filterClauses := []interface{}{}

	for _, c := range query.Conditions {
		switch c.Op {
		case models.OpContains:
			filterClauses = append(filterClauses, wildcardClause(c.Field, c.Value.(string)))
		case models.OpEquals:
			filterClauses = append(filterClauses, map[string]interface{}{
				"term": map[string]interface{}{c.Field: c.Value},
			})
		case models.OpGTE:
			filterClauses = append(filterClauses, rangeClause(c.Field, "gte", c.Value))
		case models.OpLTE:
			filterClauses = append(filterClauses, rangeClause(c.Field, "lte", c.Value))
		case models.OpContainsAll:
			for _, amenity := range c.Value.([]string) {
				filterClauses = append(filterClauses, wildcardClause("amenities", amenity))
			}
		case models.OpPriceOverlap:
			w := c.Value.(models.PriceWindow)
			filterClauses = append(filterClauses, priceOverlapClause(w))
		}
	}

	body := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": filterClauses,
			},
		},
	}
	if sort := buildSort(query.Sort); len(sort) > 0 {
		body["sort"] = sort
	}
	return body
}

func wildcardClause(field, value string) map[string]interface{} {
	return map[string]interface{}{
		"wildcard": map[string]interface{}{
			field: map[string]interface{}{
				"value":            "*" + value + "*",
				"case_insensitive": true,
			},
		},
	}
}

func rangeClause(field, op string, value interface{}) map[string]interface{} {
	return map[string]interface{}{
		"range": map[string]interface{}{
			field: map[string]interface{}{op: value},
		},
	}
}

// priceOverlapClause matches listings whose price interval overlaps the
// requested window, or whose minimum price falls inside it.
func priceOverlapClause(w models.PriceWindow) map[string]interface{} {
	return map[string]interface{}{
		"bool": map[string]interface{}{
			"should": []interface{}{
				map[string]interface{}{
					"bool": map[string]interface{}{
						"filter": []interface{}{
							rangeClause("max_price", "gte", w.Min),
							rangeClause("min_price", "lte", w.Max),
						},
					},
				},
				map[string]interface{}{
					"bool": map[string]interface{}{
						"filter": []interface{}{
							rangeClause("min_price", "gte", w.Min),
							rangeClause("min_price", "lte", w.Max),
						},
					},
				},
			},
			"minimum_should_match": 1,
		},
	}
}

func buildSort(sort models.SortSpec) []interface{} {
	keys := make([]interface{}, 0, len(sort.Keys))
	for _, k := range sort.Keys {
		order := "asc"
		if k.Desc {
			order = "desc"
		}
		keys = append(keys, map[string]interface{}{
			k.Field: map[string]interface{}{"order": order},
		})
	}
	return keys
}

// buildFilterOptionsBody aggregates the distinct values the suggestion
// endpoint needs in one request.
func buildFilterOptionsBody() map[string]interface{} {
	terms := func(field string) map[string]interface{} {
		return map[string]interface{}{
			"terms": map[string]interface{}{"field": field, "size": 100},
		}
	}
	return map[string]interface{}{
		"size": 0,
		"aggs": map[string]interface{}{
			"areas":          terms("area.keyword"),
			"developers":     terms("developer.keyword"),
			"property_types": terms("property_type.keyword"),
			"statuses":       terms("status.keyword"),
			"bedrooms":       terms("bedrooms"),
			"min_price":      map[string]interface{}{"min": map[string]interface{}{"field": "min_price"}},
			"max_price":      map[string]interface{}{"max": map[string]interface{}{"field": "max_price"}},
		},
	}
}
