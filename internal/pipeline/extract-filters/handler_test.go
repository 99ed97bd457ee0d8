// internal/pipeline/extract-filters/handler_test.go
package extractfilters

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propertychat/internal/common/logger"
	"propertychat/internal/models"
)

type cannedCompleter struct {
	response string
	err      error
	lastUser string
}

func (c *cannedCompleter) Complete(_ context.Context, _, userText string) (string, error) {
	c.lastUser = userText
	if c.err != nil {
		return "", c.err
	}
	return c.response, nil
}

func newHandler(c *cannedCompleter) *Handler {
	return NewHandler(&Config{Timeout: time.Second}, c, logger.NewNoOpLogger())
}

func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }

func TestHandler_Execute_Success(t *testing.T) {
	tests := []struct {
		name     string
		response string
		expected models.FilterRecord
	}{
		{
			name:     "area plus type plus bedrooms",
			response: `{"area": "Damac Hills", "property_type": "Villa", "bedrooms": 3}`,
			expected: models.FilterRecord{
				Area:         "Damac Hills",
				PropertyType: "Villa",
				Bedrooms:     intPtr(3),
			},
		},
		{
			name:     "price window with amenities",
			response: `{"min_price": 5000000, "max_price": 10000000, "amenities": ["Swimming Pool", "Gym"]}`,
			expected: models.FilterRecord{
				MinPrice:  floatPtr(5000000),
				MaxPrice:  floatPtr(10000000),
				Amenities: []string{"Swimming Pool", "Gym"},
			},
		},
		{
			name:     "JSON wrapped in markdown fences",
			response: "```json\n{\"status\": \"Ready\", \"furnished\": \"Furnished\"}\n```",
			expected: models.FilterRecord{
				Status:    "Ready",
				Furnished: "Furnished",
			},
		},
		{
			name:     "high floor request",
			response: `{"property_type": "Apartment", "floor_range": {"min": 10}}`,
			expected: models.FilterRecord{
				PropertyType: "Apartment",
				FloorRange:   &models.FloorRange{Min: intPtr(10)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHandler(&cannedCompleter{response: tt.response})

			out := h.Execute(context.Background(), &Input{Query: "find me a home"})

			require.NotNil(t, out)
			assert.Equal(t, tt.expected, out.Filters)
		})
	}
}

func TestHandler_Execute_EmptyOnFailure(t *testing.T) {
	tests := []struct {
		name      string
		completer *cannedCompleter
	}{
		{
			name:      "completion error",
			completer: &cannedCompleter{err: errors.New("upstream 503")},
		},
		{
			name:      "no JSON in response",
			completer: &cannedCompleter{response: "I could not determine any filters."},
		},
		{
			name:      "JSON array instead of object",
			completer: &cannedCompleter{response: `["area", "Dubai Marina"]`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHandler(tt.completer)

			out := h.Execute(context.Background(), &Input{Query: "2 bhk in marina"})

			require.NotNil(t, out)
			assert.True(t, out.Filters.IsEmpty())
		})
	}
}

func TestHandler_Execute_MalformedFieldsDropped(t *testing.T) {
	h := newHandler(&cannedCompleter{
		response: `{"area": "  Business Bay  ", "bedrooms": 2.5, "min_price": -100, "developer": "", "amenities": ["", "  Parking  "]}`,
	})

	out := h.Execute(context.Background(), &Input{Query: "query"})

	require.NotNil(t, out)
	assert.Equal(t, models.FilterRecord{
		Area:      "Business Bay",
		Amenities: []string{"Parking"},
	}, out.Filters)
}

func TestHandler_Execute_PassesQueryToCompleter(t *testing.T) {
	c := &cannedCompleter{response: `{"bedrooms": 2}`}
	h := newHandler(c)

	h.Execute(context.Background(), &Input{Query: "2 bedroom apartment in JVC"})

	assert.Equal(t, "2 bedroom apartment in JVC", c.lastUser)
}
