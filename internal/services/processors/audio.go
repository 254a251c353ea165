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

// AudioProcessor transcribes audio and video recordings by sending the
// file inline to a multimodal model. Video is handled identically; the
// model transcribes the audio track.
type AudioProcessor struct {
	loader mediaLoader
	llm    interfaces.LLMService
	logger arbor.ILogger
}

func NewAudioProcessor(media interfaces.MediaStorage, uploadDir string, llmService interfaces.LLMService, logger arbor.ILogger) *AudioProcessor {
	return &AudioProcessor{
		loader: mediaLoader{media: media, uploadDir: uploadDir},
		llm:    llmService,
		logger: logger,
	}
}

const audioPrompt = `Transcribe this recording completely and accurately.
Put the full transcription in "text". Summarize the recording in "summary",
list the main points in "key_points" and any action items or tasks the
speaker mentions in "extracted_tasks". Set "confidence_score" between 0
and 1 reflecting transcription quality.
` + jsonFormatInstruction

func (p *AudioProcessor) Process(ctx context.Context, job *models.ProcessingJob) (*models.ProcessingResult, error) {
	media, data, err := p.loader.load(ctx, job)
	if err != nil {
		return nil, err
	}

	p.logger.Debug().
		Str("job_id", job.ID).
		Str("mime_type", media.MimeType).
		Int64("size_bytes", media.SizeBytes).
		Msg("Transcribing recording")

	resp, err := p.llm.GenerateContent(ctx, &interfaces.GenerateRequest{
		Prompt:   audioPrompt,
		FileData: data,
		MimeType: media.MimeType,
	})
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
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
