package http

import (
	"context"
	"io"

	"datacleaner/pkg/contracts/domain"
)

// CleaningServiceInterface is the part of services.CleaningService the handlers call
type CleaningServiceInterface interface {
	CleanRun(ctx context.Context, runID, inputPath string) (*domain.CleaningResult, error)
}

// RunStore stores uploads and resolves run artifacts
type RunStore interface {
	SaveUpload(runID, filename string, r io.Reader, maxBytes int64) (string, error)
	RunArtifact(runID, name string) (string, error)
}
