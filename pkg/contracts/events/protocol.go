// Package events contains the message contracts pushed to WebSocket subscribers
// while cleaning runs progress.
package events

import (
	"time"

	"datacleaner/pkg/contracts/domain"
)

// Protocol version
const (
	ProtocolVersion = "1.0"
	ProtocolName    = "datacleaner-progress"
)

// MessageType identifies the kind of message sent to subscribers
type MessageType string

const (
	TypeConnection       MessageType = "connection"
	TypeCleaningStage    MessageType = "cleaning:stage"
	TypeCleaningComplete MessageType = "cleaning:complete"
	TypeCleaningFailed   MessageType = "cleaning:failed"
)

// StageEvent is emitted after each pipeline stage finishes
type StageEvent struct {
	Type      MessageType  `json:"type"`
	RunID     string       `json:"run_id"`
	Stage     domain.Stage `json:"stage"`
	Rows      int          `json:"rows"`
	Columns   int          `json:"columns"`
	Timestamp time.Time    `json:"timestamp"`
}

// CompletionEvent is emitted once per run, on success or failure
type CompletionEvent struct {
	Type      MessageType      `json:"type"`
	RunID     string           `json:"run_id"`
	Before    *domain.Snapshot `json:"before,omitempty"`
	After     *domain.Snapshot `json:"after,omitempty"`
	ErrorCode string           `json:"error_code,omitempty"`
	Message   string           `json:"message,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// ConnectionEvent greets a newly connected subscriber
type ConnectionEvent struct {
	Type      MessageType `json:"type"`
	ClientID  string      `json:"client_id"`
	Protocol  string      `json:"protocol"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
}
