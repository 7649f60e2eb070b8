package websocket

import (
	"context"
	"time"

	apperrors "datacleaner/internal/errors"
	"datacleaner/pkg/contracts/domain"
	"datacleaner/pkg/contracts/events"
)

// Broadcaster is the part of Hub the adapter needs
type Broadcaster interface {
	Broadcast(v interface{})
}

// ProgressAdapter turns cleaning progress into events for subscribers
type ProgressAdapter struct {
	hub Broadcaster
	now func() time.Time
}

// NewProgressAdapter creates an adapter broadcasting on hub
func NewProgressAdapter(hub Broadcaster) *ProgressAdapter {
	return &ProgressAdapter{
		hub: hub,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// StageCompleted broadcasts a cleaning:stage event
func (a *ProgressAdapter) StageCompleted(_ context.Context, runID string, stage domain.Stage, rows, columns int) {
	a.hub.Broadcast(events.StageEvent{
		Type:      events.TypeCleaningStage,
		RunID:     runID,
		Stage:     stage,
		Rows:      rows,
		Columns:   columns,
		Timestamp: a.now(),
	})
}

// RunCompleted broadcasts a cleaning:complete event
func (a *ProgressAdapter) RunCompleted(_ context.Context, result *domain.CleaningResult) {
	before, after := result.Before, result.After
	a.hub.Broadcast(events.CompletionEvent{
		Type:      events.TypeCleaningComplete,
		RunID:     result.RunID,
		Before:    &before,
		After:     &after,
		Timestamp: a.now(),
	})
}

// RunFailed broadcasts a cleaning:failed event
func (a *ProgressAdapter) RunFailed(_ context.Context, runID string, err error) {
	a.hub.Broadcast(events.CompletionEvent{
		Type:      events.TypeCleaningFailed,
		RunID:     runID,
		ErrorCode: string(apperrors.TypeOf(err)),
		Message:   apperrors.UserMessage(err),
		Timestamp: a.now(),
	})
}
