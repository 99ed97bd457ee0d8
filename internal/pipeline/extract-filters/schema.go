// internal/pipeline/extract-filters/schema.go
package extractfilters

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// rawFilterSchema loosely describes the JSON object the extraction model is
// asked to produce. It is advisory: violations are logged for prompt tuning,
// never enforced, since the sanitizer is the real gatekeeper.
const rawFilterSchema = `{
  "type": "object",
  "properties": {
    "area": {"type": "string"},
    "developer": {"type": "string"},
    "property_type": {"type": "string"},
    "status": {"type": "string"},
    "sale_status": {"type": "string"},
    "furnished": {"type": "string"},
    "payment_plan": {"type": "string"},
    "bedrooms": {"type": "integer"},
    "bathrooms": {"type": "integer"},
    "min_price": {"type": "number"},
    "max_price": {"type": "number"},
    "min_area_sqft": {"type": "number"},
    "max_area_sqft": {"type": "number"},
    "amenities": {"type": "array", "items": {"type": "string"}},
    "floor_range": {
      "type": "object",
      "properties": {
        "min": {"type": "integer"},
        "max": {"type": "integer"}
      }
    }
  },
  "additionalProperties": true
}`

var compiledFilterSchema = gojsonschema.NewStringLoader(rawFilterSchema)

// validateRawFilters returns a description of any schema deviations in the
// model output, or "" when the object conforms.
func validateRawFilters(raw map[string]interface{}) string {
	result, err := gojsonschema.Validate(compiledFilterSchema, gojsonschema.NewGoLoader(raw))
	if err != nil {
		return fmt.Sprintf("schema validation error: %v", err)
	}
	if result.Valid() {
		return ""
	}

	issues := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		issues = append(issues, desc.String())
	}
	return strings.Join(issues, "; ")
}
