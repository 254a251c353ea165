package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"

	"github.com/ZordnajelA/aura/internal/common"
	"github.com/ZordnajelA/aura/internal/interfaces"
	"github.com/ZordnajelA/aura/internal/ratelimit"
)

// ClaudeService implements the LLMService interface using the Anthropic
// API. Text-only; multimodal jobs go through Gemini.
type ClaudeService struct {
	config  *common.ClaudeConfig
	limiter *ratelimit.Registry
	retry   *RetryConfig
	logger  arbor.ILogger
	client  anthropic.Client
}

// NewClaudeService creates a Claude LLM service instance
func NewClaudeService(config *common.ClaudeConfig, limiter *ratelimit.Registry, logger arbor.ILogger) (*ClaudeService, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required (set AURA_ANTHROPIC_API_KEY or claude.api_key in config)")
	}

	client := anthropic.NewClient(
		option.WithAPIKey(config.APIKey),
	)

	service := &ClaudeService{
		config:  config,
		limiter: limiter,
		retry:   NewDefaultRetryConfig(),
		logger:  logger,
		client:  client,
	}

	logger.Info().
		Str("model", config.Model).
		Msg("Claude LLM service initialized")

	return service, nil
}

// GenerateContent runs one generation request against the Anthropic API
func (s *ClaudeService) GenerateContent(ctx context.Context, request *interfaces.GenerateRequest) (*interfaces.GenerateResponse, error) {
	if request.Prompt == "" {
		return nil, fmt.Errorf("prompt cannot be empty")
	}
	if len(request.FileData) > 0 {
		return nil, fmt.Errorf("claude service does not accept inline file data")
	}

	model := request.Model
	if model == "" {
		model = s.config.Model
	}

	var lastErr error
	for attempt := 0; attempt <= s.retry.MaxRetries; attempt++ {
		if err := s.limiter.Acquire(ctx, ProviderClaude); err != nil {
			return nil, err
		}

		startTime := time.Now()
		text, err := s.generate(ctx, model, request)
		if err == nil {
			s.logger.Debug().
				Str("model", model).
				Int("response_length", len(text)).
				Dur("duration", time.Since(startTime)).
				Msg("Claude generation completed")
			return &interfaces.GenerateResponse{
				Text:     text,
				Provider: ProviderClaude,
				Model:    model,
			}, nil
		}

		lastErr = err
		if !IsRateLimitError(err) || attempt == s.retry.MaxRetries {
			break
		}

		backoff := s.retry.CalculateBackoff(attempt, ExtractRetryDelay(err))
		s.logger.Warn().
			Err(err).
			Int("attempt", attempt+1).
			Dur("backoff", backoff).
			Msg("Claude rate limited by provider, backing off")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return nil, fmt.Errorf("%w: claude: %v", ErrProviderCallFailed, lastErr)
}

func (s *ClaudeService) generate(ctx context.Context, model string, request *interfaces.GenerateRequest) (string, error) {
	maxTokens := request.MaxTokens
	if maxTokens <= 0 {
		maxTokens = s.config.MaxTokens
	}
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(request.Prompt)),
		},
	}

	temperature := request.Temperature
	if temperature == 0 {
		temperature = s.config.Temperature
	}
	if temperature > 0 {
		params.Temperature = anthropic.Float(float64(temperature))
	}

	if request.SystemInstruction != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: request.SystemInstruction},
		}
	}

	resp, err := s.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("claude API call failed: %w", err)
	}

	var response strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			response.WriteString(block.Text)
		}
	}

	if response.Len() == 0 {
		return "", fmt.Errorf("no response generated from claude API")
	}

	return response.String(), nil
}

// Close releases the client reference
func (s *ClaudeService) Close() error {
	s.client = anthropic.Client{}
	return nil
}
