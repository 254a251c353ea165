package common

import (
	"github.com/google/uuid"
)

// NewID generates a unique record identifier
func NewID() string {
	return uuid.New().String()
}

// NewJobID generates a unique processing job ID with the "job_" prefix
func NewJobID() string {
	return "job_" + uuid.New().String()
}
