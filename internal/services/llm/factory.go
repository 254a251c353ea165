package llm

import (
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ZordnajelA/aura/internal/common"
	"github.com/ZordnajelA/aura/internal/interfaces"
	"github.com/ZordnajelA/aura/internal/ratelimit"
)

// NewService creates the LLM service for the configured default
// provider. Each provider shares the rate limit registry so quota
// accounting is process-wide.
func NewService(config *common.Config, limiter *ratelimit.Registry, logger arbor.ILogger) (interfaces.LLMService, error) {
	provider := strings.ToLower(config.LLM.DefaultProvider)
	switch provider {
	case ProviderGemini:
		return NewGeminiService(&config.Gemini, limiter, logger)
	case ProviderClaude:
		return NewClaudeService(&config.Claude, limiter, logger)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", provider)
	}
}

// ProviderForModel maps a model name to its provider for rate limit
// accounting. Unknown prefixes fall back to gemini.
func ProviderForModel(model string) string {
	if strings.HasPrefix(model, "claude") {
		return ProviderClaude
	}
	return ProviderGemini
}
