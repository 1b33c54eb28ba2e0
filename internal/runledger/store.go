// Package runledger records indexing runs and their stage events in SQLite
// so operators can audit what each run touched.
package runledger

import (
	"context"
	"time"
)

// Run statuses.
const (
	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Event types appended by the engine.
const (
	EventRunStarted    = "run_started"
	EventStageFinished = "stage_finished"
	EventRunFinished   = "run_finished"
)

// Run is one engine invocation.
type Run struct {
	ID       string
	Started  time.Time
	Finished time.Time // zero while running
	Status   string
}

// Event is one recorded occurrence within a run.
type Event struct {
	ID      int64
	RunID   string
	Type    string
	At      time.Time
	Details map[string]string
}

// Store persists runs and events.
type Store interface {
	StartRun(ctx context.Context, runID string, startedAt time.Time) error
	FinishRun(ctx context.Context, runID, status string, finishedAt time.Time) error
	Append(ctx context.Context, runID, eventType string, details map[string]string) error
	RecentRuns(ctx context.Context, limit int) ([]Run, error)
	EventsForRun(ctx context.Context, runID string) ([]Event, error)
	Close() error
}
