package interfaces

import (
	"context"

	"github.com/ZordnajelA/aura/internal/models"
)

// Processor executes one job type against external AI services. The
// worker pool dispatches each claimed job to the processor registered for
// its type. A returned error marks the job failed; there is no retry.
type Processor interface {
	Process(ctx context.Context, job *models.ProcessingJob) (*models.ProcessingResult, error)
}
