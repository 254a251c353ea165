package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseError reports a malformed structured response from a provider.
// Raw preserves the original text so failed responses can be logged and
// inspected.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse model response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseJSON decodes a model response into v, tolerating the markdown
// code fences models wrap JSON in despite instructions not to.
func ParseJSON(text string, v any) error {
	cleaned := StripFences(text)
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return &ParseError{Raw: text, Err: err}
	}
	return nil
}

// StripFences removes a surrounding markdown code fence, with or
// without a language tag, and trims whitespace.
func StripFences(text string) string {
	cleaned := strings.TrimSpace(text)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}

	cleaned = strings.TrimPrefix(cleaned, "```")
	// Drop a language tag like "json" on the opening fence
	if idx := strings.IndexByte(cleaned, '\n'); idx >= 0 {
		firstLine := strings.TrimSpace(cleaned[:idx])
		if firstLine != "" && !strings.ContainsAny(firstLine, "{[\"") {
			cleaned = cleaned[idx+1:]
		}
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	return strings.TrimSpace(cleaned)
}
