package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultError   ResultLabel = "error"
)

// Recorder defines observability hooks for run and stage metrics.
// Implementations may forward to Prometheus or do nothing; the engine never
// depends on which one it got.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveRunDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncRunOutcome(outcome string) // outcome: success|failed
	AddNotesIndexed(n int)
	AddSnapshotsEvicted(n int)
	SetBackupPoolBytes(n int64)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not
// configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveRunDuration(time.Duration)           {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) IncRunOutcome(string)                       {}
func (NoopRecorder) AddNotesIndexed(int)                        {}
func (NoopRecorder) AddSnapshotsEvicted(int)                    {}
func (NoopRecorder) SetBackupPoolBytes(int64)                   {}
