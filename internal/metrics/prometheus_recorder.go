package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once             sync.Once
	stageDuration    *prom.HistogramVec
	runDuration      prom.Histogram
	stageResults     *prom.CounterVec
	runOutcome       *prom.CounterVec
	notesIndexed     prom.Counter
	snapshotsEvicted prom.Counter
	backupPoolBytes  prom.Gauge
}

var _ Recorder = (*PrometheusRecorder)(nil)

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "vaultindex",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual indexing stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"})
		pr.runDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "vaultindex",
			Name:      "run_duration_seconds",
			Help:      "Total indexing run duration",
			Buckets:   prom.DefBuckets,
		})
		pr.stageResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "vaultindex",
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"})
		pr.runOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "vaultindex",
			Name:      "run_outcomes_total",
			Help:      "Run outcomes by final status",
		}, []string{"outcome"})
		pr.notesIndexed = prom.NewCounter(prom.CounterOpts{
			Namespace: "vaultindex",
			Name:      "notes_indexed_total",
			Help:      "Notes processed across all runs",
		})
		pr.snapshotsEvicted = prom.NewCounter(prom.CounterOpts{
			Namespace: "vaultindex",
			Name:      "snapshots_evicted_total",
			Help:      "Backup snapshots removed by rotation",
		})
		pr.backupPoolBytes = prom.NewGauge(prom.GaugeOpts{
			Namespace: "vaultindex",
			Name:      "backup_pool_bytes",
			Help:      "Current total size of the backup pool",
		})
		reg.MustRegister(pr.stageDuration, pr.runDuration, pr.stageResults,
			pr.runOutcome, pr.notesIndexed, pr.snapshotsEvicted, pr.backupPoolBytes)
	})
	return pr
}

func (pr *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	pr.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (pr *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	pr.runDuration.Observe(d.Seconds())
}

func (pr *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	pr.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (pr *PrometheusRecorder) IncRunOutcome(outcome string) {
	pr.runOutcome.WithLabelValues(outcome).Inc()
}

func (pr *PrometheusRecorder) AddNotesIndexed(n int) {
	pr.notesIndexed.Add(float64(n))
}

func (pr *PrometheusRecorder) AddSnapshotsEvicted(n int) {
	pr.snapshotsEvicted.Add(float64(n))
}

func (pr *PrometheusRecorder) SetBackupPoolBytes(n int64) {
	pr.backupPoolBytes.Set(float64(n))
}
