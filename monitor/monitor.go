// Package monitor exposes coordination counters for one process.
package monitor

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RoundsStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "distboost_rounds_started_total",
		Help: "Training rounds dispatched.",
	})
	RoundsFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "distboost_rounds_failed_total",
		Help: "Training rounds that ended in an error.",
	})
	JobsSubmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "distboost_jobs_submitted_total",
		Help: "Per-worker training jobs submitted.",
	})
	JobsFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "distboost_jobs_failed_total",
		Help: "Per-worker training jobs that returned an error.",
	})
	PortProbes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "distboost_port_probes_total",
		Help: "Remote port probes issued during topology negotiation.",
	}, []string{"host"})
)

func init() {
	prometheus.MustRegister(RoundsStarted, RoundsFailed, JobsSubmitted, JobsFailed, PortProbes)
}

// Handler serves the process metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
