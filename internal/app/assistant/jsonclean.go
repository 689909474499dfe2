package assistant

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CleanAndDecode strips the markdown code fences LLMs like to wrap JSON in
// and decodes what remains into a map.
func CleanAndDecode(raw string) (map[string]interface{}, error) {
	cleaned := CleanJSONFences(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("reply is empty after cleaning")
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode JSON after cleaning: %w", err)
	}

	return parsed, nil
}

// CleanJSONFences removes a leading ```json or ``` fence and a trailing ```
// fence, returning the trimmed body.
func CleanJSONFences(raw string) string {
	cleaned := strings.TrimSpace(raw)

	if rest, ok := strings.CutPrefix(cleaned, "```json\n"); ok {
		cleaned = rest
	} else if rest, ok := strings.CutPrefix(cleaned, "```\n"); ok {
		cleaned = rest
	}

	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.TrimSuffix(cleaned, "```")

	return strings.TrimSpace(cleaned)
}
