// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	PaywallImpressions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paywall_impressions_total",
			Help: "Paywall impressions by trigger type",
		},
		[]string{"trigger"},
	)

	GateDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gate_decisions_total",
			Help: "Feature access decisions by feature and outcome",
		},
		[]string{"feature", "outcome"},
	)

	GatePersistenceErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gate_persistence_errors_total",
			Help: "Swallowed paywall/trial state load and save failures",
		},
		[]string{"store", "op"},
	)

	LeaseIntelFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lease_intel_fetches_total",
			Help: "Lease intelligence fetches by source and outcome",
		},
		[]string{"source", "outcome"},
	)
)
