package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// SchemaValidator validates a parsed struct after JSON extraction.
// Returns nil if valid, or a descriptive error if invalid.
type SchemaValidator[T any] func(T) error

// fenceToken matches a markdown fence and the language tag glued to it.
var fenceToken = regexp.MustCompile("```[A-Za-z0-9_+-]*")

// ExtractJSON extracts a JSON object of type T from raw LLM text output.
// Code fences are removed and the span from the first '{' to the last '}'
// is decoded strictly; prose on either side of that span is ignored.
// If validator is non-nil, the extracted value is validated before return.
func ExtractJSON[T any](raw string, validator SchemaValidator[T]) (T, error) {
	var zero T

	candidate := OuterJSONSpan(StripCodeFences(raw))
	if candidate == "" {
		return zero, fmt.Errorf("%w: empty response", ErrInvalidOutput)
	}

	var result T
	if err := json.Unmarshal([]byte(candidate), &result); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}

	if validator != nil {
		if err := validator(result); err != nil {
			return zero, fmt.Errorf("%w: validation failed: %v", ErrInvalidOutput, err)
		}
	}

	return result, nil
}

// StripCodeFences trims s and drops every ``` marker together with any
// language tag that immediately follows it.
func StripCodeFences(s string) string {
	return strings.TrimSpace(fenceToken.ReplaceAllString(strings.TrimSpace(s), ""))
}

// OuterJSONSpan returns s[first '{' : last '}'+1] when both braces exist in
// that order, otherwise s unchanged. Braces are not balanced, so trailing
// prose containing '}' widens the span.
func OuterJSONSpan(s string) string {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start == -1 || end == -1 || start >= end {
		return s
	}
	return s[start : end+1]
}
