package interfaces

import "context"

// GenerateRequest is a provider-agnostic content generation request
type GenerateRequest struct {
	Model             string
	Prompt            string
	SystemInstruction string
	Temperature       float32
	MaxTokens         int

	// Inline file attachment for multimodal requests (Gemini only)
	FileData []byte
	MimeType string
}

// GenerateResponse is a provider-agnostic content generation response
type GenerateResponse struct {
	Text     string
	Provider string
	Model    string
}

// LLMService generates content through a hosted AI provider. Every call
// passes the provider's rate limiter before leaving the process.
type LLMService interface {
	GenerateContent(ctx context.Context, request *GenerateRequest) (*GenerateResponse, error)
	Close() error
}
