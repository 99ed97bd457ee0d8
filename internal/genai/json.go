package genai

import (
	"encoding/json"
	"errors"
	"strings"
)

var ErrNoJSONObject = errors.New("no JSON object found in completion output")

// ExtractJSONObject returns the first balanced JSON object substring of raw.
// Model output routinely wraps JSON in prose or markdown fences; scanning for
// balanced braces (string-aware) recovers the object without caring about the
// wrapping.
func ExtractJSONObject(raw string) (string, error) {
	start := strings.Index(raw, "{")
	if start < 0 {
		return "", ErrNoJSONObject
	}

	depth := 0
	inString := false
	escape := false

	for i := start; i < len(raw); i++ {
		ch := raw[i]

		if escape {
			escape = false
			continue
		}

		switch ch {
		case '\\':
			if inString {
				escape = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return raw[start : i+1], nil
				}
			}
		}
	}

	return "", ErrNoJSONObject
}

// DecodeFirstJSON extracts the first balanced JSON object and unmarshals it
// into target.
func DecodeFirstJSON(raw string, target interface{}) error {
	obj, err := ExtractJSONObject(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(obj), target)
}
