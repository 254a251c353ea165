package llm

import "errors"

// ErrProviderCallFailed wraps provider API failures after retries are
// exhausted. Callers match with errors.Is and surface the job error
// message from the wrapped detail.
var ErrProviderCallFailed = errors.New("provider call failed")

// Provider names as they appear in configuration and rate limit quotas
const (
	ProviderGemini = "gemini"
	ProviderClaude = "claude"
)
