package normalizer

import (
	"encoding/json"
	"strings"

	"github.com/ternarybob/vendo/internal/common"
)

// StripCodeFences removes a wrapping markdown code fence from an AI response.
// Models routinely wrap JSON in ```json ... ``` despite instructions not to.
func StripCodeFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		// Drop the language hint on the opening fence line.
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// DecodeResponse strips code fences and unmarshals the response into v. A
// parse failure returns a ValidationError carrying the raw response text.
func DecodeResponse(raw string, v any) error {
	cleaned := StripCodeFences(raw)
	if cleaned == "" {
		return &common.ValidationError{Message: "empty AI response", Raw: raw}
	}
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return &common.ValidationError{Message: "AI response is not valid JSON", Raw: raw, Err: err}
	}
	return nil
}
