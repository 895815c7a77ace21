package gemini

import (
	"encoding/json"
	"strings"

	"github.com/prasad0706/docintel/internal/core/domain"
)

// parseExtraction pulls the first complete JSON object out of a model
// response and checks it carries the expected analysis fields. Models
// routinely wrap output in markdown fences or prose despite instructions,
// so the scan tolerates surrounding text.
func parseExtraction(raw string) (json.RawMessage, error) {
	candidate := extractJSONObject(raw)
	if candidate == "" {
		return nil, domain.WrapError(domain.ErrInvalidAIResponse, "gemini.parse",
			errNoJSONObject)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &fields); err != nil {
		return nil, domain.WrapError(domain.ErrInvalidAIResponse, "gemini.parse", err)
	}

	if isNullField(fields["summary"]) && isNullField(fields["key_insights"]) {
		return nil, domain.WrapError(domain.ErrInvalidAIResponse, "gemini.parse",
			errMissingFields)
	}

	return json.RawMessage(candidate), nil
}

var (
	errNoJSONObject  = errorString("response contains no JSON object")
	errMissingFields = errorString("response missing summary and key_insights")
)

type errorString string

func (e errorString) Error() string { return string(e) }

func isNullField(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed == "" || trimmed == "null"
}

// extractJSONObject returns the first balanced top-level JSON object in
// raw, or "" when braces never balance. Braces inside JSON strings are
// skipped, including escaped quotes.
func extractJSONObject(raw string) string {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		ch := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return raw[start : i+1]
			}
		}
	}
	return ""
}
