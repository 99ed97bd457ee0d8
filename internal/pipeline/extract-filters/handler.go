// internal/pipeline/extract-filters/handler.go
package extractfilters

import (
	"context"
	"time"

	"propertychat/internal/common/logger"
	"propertychat/internal/common/metrics"
	"propertychat/internal/genai"
)

const StageName = "extract-filters"

const extractInstruction = `The user sent this property search query.

You are Shora, the AI assistant of roarrealty.ae that helps users find properties.

Extract comprehensive property search filters from the query and return them as JSON:

{
  "area": "area name if mentioned (e.g., Damac Hills, Downtown Dubai)",
  "developer": "developer name if mentioned (e.g., DAMAC, Emaar, Sobha)",
  "property_type": "Villa/Apartment/Penthouse/Studio/Townhouse if mentioned",
  "bedrooms": number_of_bedrooms_if_mentioned,
  "bathrooms": number_of_bathrooms_if_mentioned,
  "min_price": number_if_mentioned,
  "max_price": number_if_mentioned,
  "min_area_sqft": square_feet_minimum_if_mentioned,
  "max_area_sqft": square_feet_maximum_if_mentioned,
  "status": "Under Construction/Ready/Off Plan if mentioned",
  "sale_status": "Available/Sold/Reserved if mentioned",
  "amenities": ["Swimming Pool", "Gym", "Parking"],
  "floor_range": {"min": number, "max": number},
  "furnished": "Furnished/Unfurnished/Semi-furnished if mentioned",
  "payment_plan": "Cash/Installment/Mortgage if mentioned"
}

Only include fields the user actually specified.

Examples:
"3 bedroom villa in Damac Hills" -> {"area": "Damac Hills", "property_type": "Villa", "bedrooms": 3}
"DAMAC apartments with swimming pool" -> {"developer": "DAMAC", "property_type": "Apartment", "amenities": ["Swimming Pool"]}
"50 lakh to 1 crore" -> {"min_price": 5000000, "max_price": 10000000}
"ready to move properties" -> {"status": "Ready"}
"furnished studio apartment" -> {"property_type": "Studio", "furnished": "Furnished"}
"more than 2000 sqft" -> {"min_area_sqft": 2000}
"high floor apartment" -> {"property_type": "Apartment", "floor_range": {"min": 10}}

Return ONLY the JSON, no extra text.`

type Handler struct {
	config    *Config
	completer genai.Completer
	logger    logger.Logger
}

func NewHandler(config *Config, completer genai.Completer, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		completer: completer,
		logger:    log.With(map[string]interface{}{"stage": StageName}),
	}
}

// Execute extracts and sanitizes search filters from the raw query. It is
// total: on any completion or parse failure it returns an empty record, and
// the search degenerates to an unconstrained top-listings query. One
// best-effort call, no retry — the completion service is the critical-path
// latency cost of the request.
func (h *Handler) Execute(ctx context.Context, input *Input) *Output {
	start := time.Now()
	defer func() {
		metrics.PipelineStageDuration.WithLabelValues(StageName).Observe(time.Since(start).Seconds())
	}()

	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	raw, err := h.completer.Complete(ctx, extractInstruction, input.Query)
	if err != nil {
		h.logger.Warn("filter extraction failed, using empty filters", map[string]interface{}{
			"error": err.Error(),
		})
		metrics.PipelineStageFallback.WithLabelValues(StageName, "COMPLETION_FAILED").Inc()
		return &Output{}
	}

	var rawFilters map[string]interface{}
	if err := genai.DecodeFirstJSON(raw, &rawFilters); err != nil {
		h.logger.Warn("no usable JSON in extraction response", map[string]interface{}{
			"error": err.Error(),
		})
		metrics.PipelineStageFallback.WithLabelValues(StageName, "PARSE_FAILED").Inc()
		return &Output{}
	}

	// Advisory only: the sanitizer is the authority on what survives.
	if violations := validateRawFilters(rawFilters); len(violations) > 0 {
		h.logger.Debug("extracted filters violate schema", map[string]interface{}{
			"violations": violations,
		})
	}

	filters := Sanitize(rawFilters)
	metrics.PipelineStageCompleted.WithLabelValues(StageName).Inc()

	h.logger.Info("filters extracted", map[string]interface{}{
		"filters": filters.Describe(),
	})

	return &Output{Filters: filters}
}
