// Package metrics exposes the orchestrator's stage-duration histograms,
// worker-pool gauges, and matrix-refresh counters to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "kyogre"
	subsystem = "orchestrator"
)

// Registry bundles every metric the orchestrator and its stages report.
// Every method is a no-op on a nil *Registry, so code holding no
// Registry (and no live prometheus.Registerer) can call them unguarded.
type Registry struct {
	StageDuration    *prometheus.HistogramVec
	StageOutcomes    *prometheus.CounterVec
	WorkerPoolActive *prometheus.GaugeVec
	WorkerPoolQueued *prometheus.GaugeVec
	MatrixRefreshes  *prometheus.CounterVec
	MatrixCacheAge   prometheus.Gauge
	SearchIndexWrite *prometheus.CounterVec
}

// New builds a Registry and registers every metric against reg.
func New(reg prometheus.Registerer) *Registry {
	r := &Registry{
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "stage_duration_seconds",
			Help:      "Duration of one orchestrator stage run, by state and outcome.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		}, []string{"state", "outcome"}),

		StageOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "stage_outcomes_total",
			Help:      "Count of orchestrator stage transitions by state and outcome.",
		}, []string{"state", "outcome"}),

		WorkerPoolActive: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "worker_pool_active",
			Help:      "Number of workers currently processing an item, by stage.",
		}, []string{"stage"}),

		WorkerPoolQueued: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "worker_pool_queued",
			Help:      "Number of items still queued for a stage's worker pool.",
		}, []string{"stage"}),

		MatrixRefreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "matrix_cache",
			Name:      "refreshes_total",
			Help:      "Count of matrix cache refresh passes, by whether a rebuild happened.",
		}, []string{"rebuilt"}),

		MatrixCacheAge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "matrix_cache",
			Name:      "version_lag",
			Help:      "Difference between the authoritative and cached matrix_cache_version.",
		}),

		SearchIndexWrite: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search_index",
			Name:      "writes_total",
			Help:      "Count of search-index mirror writes by operation and result.",
		}, []string{"operation", "result"}),
	}

	reg.MustRegister(
		r.StageDuration,
		r.StageOutcomes,
		r.WorkerPoolActive,
		r.WorkerPoolQueued,
		r.MatrixRefreshes,
		r.MatrixCacheAge,
		r.SearchIndexWrite,
	)
	return r
}

// ObserveStage records one stage run's duration and outcome.
func (r *Registry) ObserveStage(state, outcome string, duration time.Duration) {
	if r == nil {
		return
	}
	r.StageDuration.WithLabelValues(state, outcome).Observe(duration.Seconds())
	r.StageOutcomes.WithLabelValues(state, outcome).Inc()
}

// SetWorkerPoolGauges records a stage's current active/queued worker counts.
func (r *Registry) SetWorkerPoolGauges(stage string, active, queued int) {
	if r == nil {
		return
	}
	r.WorkerPoolActive.WithLabelValues(stage).Set(float64(active))
	r.WorkerPoolQueued.WithLabelValues(stage).Set(float64(queued))
}

// ObserveMatrixRefresh records one refresh pass outcome and the resulting
// version lag (0 immediately after a successful rebuild).
func (r *Registry) ObserveMatrixRefresh(rebuilt bool, versionLag int64) {
	if r == nil {
		return
	}
	r.MatrixRefreshes.WithLabelValues(boolLabel(rebuilt)).Inc()
	r.MatrixCacheAge.Set(float64(versionLag))
}

// ObserveSearchIndexWrite records one mirror write call's result.
func (r *Registry) ObserveSearchIndexWrite(operation string, ok bool) {
	if r == nil {
		return
	}
	result := "error"
	if ok {
		result = "ok"
	}
	r.SearchIndexWrite.WithLabelValues(operation, result).Inc()
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
