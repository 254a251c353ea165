package processors

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ZordnajelA/aura/internal/interfaces"
	"github.com/ZordnajelA/aura/internal/models"
)

// analysisPayload is the JSON schema every media prompt asks the model
// to return
type analysisPayload struct {
	Text           string   `json:"text"`
	Summary        string   `json:"summary"`
	KeyPoints      []string `json:"key_points"`
	ExtractedTasks []string `json:"extracted_tasks"`
	Confidence     float64  `json:"confidence_score"`
}

func (p *analysisPayload) toResult(metadata map[string]string) *models.ProcessingResult {
	return &models.ProcessingResult{
		RawText:        p.Text,
		Summary:        p.Summary,
		KeyPoints:      p.KeyPoints,
		ExtractedTasks: p.ExtractedTasks,
		Metadata:       metadata,
		Confidence:     p.Confidence,
	}
}

// mediaLoader resolves a job's media row and reads its file from the
// upload directory
type mediaLoader struct {
	media     interfaces.MediaStorage
	uploadDir string
}

func (l *mediaLoader) load(ctx context.Context, job *models.ProcessingJob) (*models.Media, []byte, error) {
	if job.MediaID == nil {
		return nil, nil, fmt.Errorf("job %s has no media attached", job.ID)
	}

	media, err := l.media.GetMediaByID(ctx, *job.MediaID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve media %s: %w", *job.MediaID, err)
	}

	path := filepath.Join(l.uploadDir, media.FilePath)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read media file %s: %w", media.FilePath, err)
	}

	return media, data, nil
}

const jsonFormatInstruction = `Respond with a single JSON object and nothing else, using this schema:
{"text": "...", "summary": "...", "key_points": ["..."], "extracted_tasks": ["..."], "confidence_score": 0.0}
Do not wrap the JSON in markdown fences.`
