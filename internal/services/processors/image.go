package processors

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ternarybob/arbor"

	"github.com/ZordnajelA/aura/internal/interfaces"
	"github.com/ZordnajelA/aura/internal/models"
	"github.com/ZordnajelA/aura/internal/services/llm"
)

// ImageProcessor extracts text from images (OCR) and describes visual
// content when no text is present.
type ImageProcessor struct {
	loader mediaLoader
	llm    interfaces.LLMService
	logger arbor.ILogger
}

func NewImageProcessor(media interfaces.MediaStorage, uploadDir string, llmService interfaces.LLMService, logger arbor.ILogger) *ImageProcessor {
	return &ImageProcessor{
		loader: mediaLoader{media: media, uploadDir: uploadDir},
		llm:    llmService,
		logger: logger,
	}
}

const imagePrompt = `Extract all visible text from this image, preserving
structure where possible. Put the extracted text in "text". If the image
contains little or no text, describe what it shows in "text" instead.
Summarize in "summary", list notable elements in "key_points" and any
tasks implied by the content (for example items on a photographed
whiteboard) in "extracted_tasks". Set "confidence_score" between 0 and 1.
` + jsonFormatInstruction

func (p *ImageProcessor) Process(ctx context.Context, job *models.ProcessingJob) (*models.ProcessingResult, error) {
	media, data, err := p.loader.load(ctx, job)
	if err != nil {
		return nil, err
	}

	p.logger.Debug().
		Str("job_id", job.ID).
		Str("mime_type", media.MimeType).
		Msg("Extracting text from image")

	resp, err := p.llm.GenerateContent(ctx, &interfaces.GenerateRequest{
		Prompt:   imagePrompt,
		FileData: data,
		MimeType: media.MimeType,
	})
	if err != nil {
		return nil, fmt.Errorf("image analysis failed: %w", err)
	}

	var payload analysisPayload
	if err := llm.ParseJSON(resp.Text, &payload); err != nil {
		return nil, err
	}

	return payload.toResult(map[string]string{
		"file_name":  media.FileName,
		"mime_type":  media.MimeType,
		"size_bytes": strconv.FormatInt(media.SizeBytes, 10),
		"provider":   resp.Provider,
		"model":      resp.Model,
	}), nil
}
