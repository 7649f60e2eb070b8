package services

import (
	"context"

	"datacleaner/pkg/contracts/domain"
)

// ProgressReporter receives pipeline progress. Implementations must not block
// for long; they run on the cleaning goroutine.
type ProgressReporter interface {
	StageCompleted(ctx context.Context, runID string, stage domain.Stage, rows, columns int)
	RunCompleted(ctx context.Context, result *domain.CleaningResult)
	RunFailed(ctx context.Context, runID string, err error)
}

// NopProgress discards all progress
type NopProgress struct{}

func (NopProgress) StageCompleted(context.Context, string, domain.Stage, int, int) {}
func (NopProgress) RunCompleted(context.Context, *domain.CleaningResult)           {}
func (NopProgress) RunFailed(context.Context, string, error)                       {}
