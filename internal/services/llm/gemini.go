package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"google.golang.org/genai"

	"github.com/ZordnajelA/aura/internal/common"
	"github.com/ZordnajelA/aura/internal/interfaces"
	"github.com/ZordnajelA/aura/internal/ratelimit"
)

// GeminiService implements the LLMService interface using the Google
// Gemini API. Every request passes the gemini rate limiter before it
// leaves the process; 429 responses from the provider are retried with
// backoff on top of that.
type GeminiService struct {
	config  *common.GeminiConfig
	limiter *ratelimit.Registry
	retry   *RetryConfig
	logger  arbor.ILogger
	client  *genai.Client
}

// NewGeminiService creates a Gemini LLM service instance
func NewGeminiService(config *common.GeminiConfig, limiter *ratelimit.Registry, logger arbor.ILogger) (*GeminiService, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required (set AURA_GEMINI_API_KEY or gemini.api_key in config)")
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}

	service := &GeminiService{
		config:  config,
		limiter: limiter,
		retry:   NewDefaultRetryConfig(),
		logger:  logger,
		client:  client,
	}

	logger.Info().
		Str("model", config.Model).
		Msg("Gemini LLM service initialized")

	return service, nil
}

// GenerateContent runs one generation request, including inline file
// data for multimodal jobs (audio, images, PDFs).
func (s *GeminiService) GenerateContent(ctx context.Context, request *interfaces.GenerateRequest) (*interfaces.GenerateResponse, error) {
	if request.Prompt == "" {
		return nil, fmt.Errorf("prompt cannot be empty")
	}

	model := request.Model
	if model == "" {
		model = s.config.Model
	}

	var lastErr error
	for attempt := 0; attempt <= s.retry.MaxRetries; attempt++ {
		// The local limiter blocks until both the minute and day windows
		// have room, so retries also consume quota slots
		if err := s.limiter.Acquire(ctx, ProviderGemini); err != nil {
			return nil, err
		}

		startTime := time.Now()
		text, err := s.generate(ctx, model, request)
		if err == nil {
			s.logger.Debug().
				Str("model", model).
				Int("response_length", len(text)).
				Dur("duration", time.Since(startTime)).
				Msg("Gemini generation completed")
			return &interfaces.GenerateResponse{
				Text:     text,
				Provider: ProviderGemini,
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
			Msg("Gemini rate limited by provider, backing off")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return nil, fmt.Errorf("%w: gemini: %v", ErrProviderCallFailed, lastErr)
}

func (s *GeminiService) generate(ctx context.Context, model string, request *interfaces.GenerateRequest) (string, error) {
	parts := []*genai.Part{genai.NewPartFromText(request.Prompt)}
	if len(request.FileData) > 0 {
		parts = append(parts, genai.NewPartFromBytes(request.FileData, request.MimeType))
	}

	contents := []*genai.Content{{
		Role:  genai.RoleUser,
		Parts: parts,
	}}

	temperature := request.Temperature
	if temperature == 0 {
		temperature = s.config.Temperature
	}
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(temperature),
	}
	if request.SystemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(request.SystemInstruction, genai.RoleUser)
	}
	if request.MaxTokens > 0 {
		config.MaxOutputTokens = int32(request.MaxTokens)
	}

	resp, err := s.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	var response strings.Builder
	if resp != nil && len(resp.Candidates) > 0 {
		for _, candidate := range resp.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if part.Text != "" {
					response.WriteString(part.Text)
				}
			}
			if response.Len() > 0 {
				break
			}
		}
	}

	if response.Len() == 0 {
		return "", fmt.Errorf("no response generated from gemini model")
	}

	return response.String(), nil
}

// Close releases the client reference
func (s *GeminiService) Close() error {
	s.client = nil
	return nil
}
