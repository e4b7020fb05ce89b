package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseJSON decodes the JSON object embedded in an LLM response into T.
// Models routinely wrap the object in markdown fences or surround it with
// prose, so only the text between the first '{' and the last '}' is
// decoded.
func ParseJSON[T any](response string) (T, error) {
	var zero T

	cleaned := strings.TrimSpace(response)
	start := strings.Index(cleaned, "{")
	if start < 0 {
		return zero, fmt.Errorf("no JSON object in response: %q", truncate(cleaned, 120))
	}
	if end := strings.LastIndex(cleaned, "}"); end > start {
		cleaned = cleaned[start : end+1]
	} else {
		cleaned = cleaned[start:]
	}

	var result T
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return zero, fmt.Errorf("failed to unmarshal JSON: %w: %q", err, truncate(cleaned, 120))
	}
	return result, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
