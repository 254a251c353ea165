package processors

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/ternarybob/arbor"

	"github.com/ZordnajelA/aura/internal/interfaces"
	"github.com/ZordnajelA/aura/internal/models"
	"github.com/ZordnajelA/aura/internal/services/llm"
)

// DocumentProcessor extracts and summarizes text from uploaded
// documents. PDFs are validated with pdfcpu before the bytes are sent
// to the model; corrupt files fail fast without burning quota.
type DocumentProcessor struct {
	loader mediaLoader
	llm    interfaces.LLMService
	logger arbor.ILogger
}

func NewDocumentProcessor(media interfaces.MediaStorage, uploadDir string, llmService interfaces.LLMService, logger arbor.ILogger) *DocumentProcessor {
	return &DocumentProcessor{
		loader: mediaLoader{media: media, uploadDir: uploadDir},
		llm:    llmService,
		logger: logger,
	}
}

const documentPrompt = `Extract the full text of this document into
"text", keeping headings and paragraph breaks. Summarize it in
"summary", list the key points in "key_points" and any action items or
deadlines in "extracted_tasks". Set "confidence_score" between 0 and 1.
` + jsonFormatInstruction

func (p *DocumentProcessor) Process(ctx context.Context, job *models.ProcessingJob) (*models.ProcessingResult, error) {
	media, data, err := p.loader.load(ctx, job)
	if err != nil {
		return nil, err
	}

	metadata := map[string]string{
		"file_name":  media.FileName,
		"mime_type":  media.MimeType,
		"size_bytes": strconv.FormatInt(media.SizeBytes, 10),
	}

	if media.MimeType == "application/pdf" {
		pageCount, err := p.validatePDF(media.FilePath)
		if err != nil {
			return nil, fmt.Errorf("invalid PDF: %w", err)
		}
		metadata["page_count"] = strconv.Itoa(pageCount)
	}

	p.logger.Debug().
		Str("job_id", job.ID).
		Str("mime_type", media.MimeType).
		Msg("Analyzing document")

	resp, err := p.llm.GenerateContent(ctx, &interfaces.GenerateRequest{
		Prompt:   documentPrompt,
		FileData: data,
		MimeType: media.MimeType,
	})
	if err != nil {
		return nil, fmt.Errorf("document analysis failed: %w", err)
	}

	var payload analysisPayload
	if err := llm.ParseJSON(resp.Text, &payload); err != nil {
		return nil, err
	}

	metadata["provider"] = resp.Provider
	metadata["model"] = resp.Model
	return payload.toResult(metadata), nil
}

// validatePDF checks structural integrity and returns the page count
func (p *DocumentProcessor) validatePDF(filePath string) (int, error) {
	path := filepath.Join(p.loader.uploadDir, filePath)
	if _, err := os.Stat(path); err != nil {
		return 0, err
	}

	if err := api.ValidateFile(path, nil); err != nil {
		return 0, err
	}

	pageCount, err := api.PageCountFile(path)
	if err != nil {
		return 0, err
	}

	return pageCount, nil
}
