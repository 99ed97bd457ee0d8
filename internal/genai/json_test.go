package genai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
		wantErr  bool
	}{
		{
			name:     "pure JSON",
			raw:      `{"intent": "general_chat", "confidence": 0.9}`,
			expected: `{"intent": "general_chat", "confidence": 0.9}`,
		},
		{
			name:     "JSON wrapped in markdown fence",
			raw:      "```json\n{\"intent\": \"property_search\"}\n```",
			expected: `{"intent": "property_search"}`,
		},
		{
			name:     "JSON with surrounding prose",
			raw:      `Sure! Here is the result: {"bedrooms": 3} hope that helps`,
			expected: `{"bedrooms": 3}`,
		},
		{
			name:     "nested objects",
			raw:      `{"floor_range": {"min": 10, "max": 20}, "area": "Marina"}`,
			expected: `{"floor_range": {"min": 10, "max": 20}, "area": "Marina"}`,
		},
		{
			name:     "braces inside string values",
			raw:      `{"reason": "user wrote {hello}", "intent": "general_chat"}`,
			expected: `{"reason": "user wrote {hello}", "intent": "general_chat"}`,
		},
		{
			name:     "escaped quotes inside strings",
			raw:      `{"reason": "said \"villa\" twice"}`,
			expected: `{"reason": "said \"villa\" twice"}`,
		},
		{
			name:     "first of two objects wins",
			raw:      `{"a": 1} {"b": 2}`,
			expected: `{"a": 1}`,
		},
		{
			name:    "no object",
			raw:     "I could not produce JSON, sorry.",
			wantErr: true,
		},
		{
			name:    "unbalanced object",
			raw:     `{"intent": "general_chat"`,
			wantErr: true,
		},
		{
			name:    "empty input",
			raw:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSONObject(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNoJSONObject)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestDecodeFirstJSON(t *testing.T) {
	var out struct {
		Intent     string  `json:"intent"`
		Confidence float64 `json:"confidence"`
	}

	err := DecodeFirstJSON("result:\n```\n{\"intent\":\"company_info\",\"confidence\":0.85}\n```", &out)
	require.NoError(t, err)
	assert.Equal(t, "company_info", out.Intent)
	assert.Equal(t, 0.85, out.Confidence)

	err = DecodeFirstJSON(`{"intent": }`, &out)
	assert.Error(t, err)
}
