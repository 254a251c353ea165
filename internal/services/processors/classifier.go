package processors

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ZordnajelA/aura/internal/interfaces"
	"github.com/ZordnajelA/aura/internal/models"
	"github.com/ZordnajelA/aura/internal/services/llm"
)

// ClassifierProcessor suggests where a note belongs in the user's PARA
// taxonomy. The user's existing areas and projects are included in the
// prompt so suggestions reference real destinations, not invented ones.
type ClassifierProcessor struct {
	notes  interfaces.NoteStorage
	para   interfaces.ParaStorage
	llm    interfaces.LLMService
	logger arbor.ILogger
}

func NewClassifierProcessor(notes interfaces.NoteStorage, para interfaces.ParaStorage, llmService interfaces.LLMService, logger arbor.ILogger) *ClassifierProcessor {
	return &ClassifierProcessor{
		notes:  notes,
		para:   para,
		llm:    llmService,
		logger: logger,
	}
}

const classifierSystemInstruction = `You classify personal notes into the
PARA method: project (has a goal and a deadline), area (ongoing
responsibility), resource (reference material), archive (inactive).
Respond with a single JSON object and nothing else, using this schema:
{"classification_type": "project|area|resource|archive|other",
 "suggested_area": "", "suggested_project": "", "is_actionable": false,
 "priority": "low|medium|high", "confidence_score": 0.0}
Only suggest areas and projects from the provided lists; leave the field
empty when nothing fits. Do not wrap the JSON in markdown fences.`

func (p *ClassifierProcessor) Process(ctx context.Context, job *models.ProcessingJob) (*models.ProcessingResult, error) {
	if job.NoteID == nil {
		return nil, fmt.Errorf("job %s has no note attached", job.ID)
	}

	note, err := p.notes.GetNote(ctx, job.UserID, *job.NoteID)
	if err != nil {
		return nil, fmt.Errorf("failed to load note: %w", err)
	}
	if strings.TrimSpace(note.Title) == "" && strings.TrimSpace(note.Content) == "" {
		return nil, fmt.Errorf("note %s has no content to classify", note.ID)
	}

	areas, err := p.para.ListItems(ctx, job.UserID, models.ParaKindArea)
	if err != nil {
		return nil, fmt.Errorf("failed to load areas: %w", err)
	}
	projects, err := p.para.ListItems(ctx, job.UserID, models.ParaKindProject)
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}

	resp, err := p.llm.GenerateContent(ctx, &interfaces.GenerateRequest{
		Prompt:            buildClassifierPrompt(note, areas, projects),
		SystemInstruction: classifierSystemInstruction,
	})
	if err != nil {
		return nil, fmt.Errorf("classification failed: %w", err)
	}

	var classification models.Classification
	if err := llm.ParseJSON(resp.Text, &classification); err != nil {
		return nil, err
	}

	p.logger.Debug().
		Str("job_id", job.ID).
		Str("classification", classification.Type).
		Msg("Note classified")

	return &models.ProcessingResult{
		Summary: fmt.Sprintf("Classified as %s", classification.Type),
		Metadata: map[string]string{
			"classification_type": classification.Type,
			"suggested_area":      classification.SuggestedArea,
			"suggested_project":   classification.SuggestedProject,
			"is_actionable":       strconv.FormatBool(classification.IsActionable),
			"priority":            classification.Priority,
			"provider":            resp.Provider,
			"model":               resp.Model,
		},
		Confidence: classification.Confidence,
	}, nil
}

func buildClassifierPrompt(note *models.Note, areas, projects []*models.ParaItem) string {
	var b strings.Builder

	b.WriteString("Existing areas:\n")
	writeItemList(&b, areas)
	b.WriteString("\nExisting projects:\n")
	writeItemList(&b, projects)

	b.WriteString("\nNote title: ")
	b.WriteString(note.Title)
	b.WriteString("\nNote content:\n")
	b.WriteString(note.Content)

	return b.String()
}

func writeItemList(b *strings.Builder, items []*models.ParaItem) {
	if len(items) == 0 {
		b.WriteString("(none)\n")
		return
	}
	for _, item := range items {
		b.WriteString("- ")
		b.WriteString(item.Name)
		if item.Description != "" {
			b.WriteString(": ")
			b.WriteString(item.Description)
		}
		b.WriteString("\n")
	}
}
