package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "meeting_analysis_runs_total",
		Help: "Total number of analysis runs by terminal status",
	}, []string{"status"})

	fallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "meeting_analysis_fallbacks_total",
		Help: "Total number of fallback values substituted, by signal",
	}, []string{"signal"})

	providerRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "meeting_analysis_provider_requests_total",
		Help: "Total number of external provider requests",
	}, []string{"provider", "status"})

	stageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "meeting_analysis_stage_duration_seconds",
		Help:    "Duration of pipeline stages in seconds",
		Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600},
	}, []string{"stage"})
)

// RecordRun counts a run that reached a terminal status
func RecordRun(status string) {
	runsTotal.WithLabelValues(status).Inc()
}

// RecordFallback counts a substituted fallback value
func RecordFallback(signal string) {
	fallbacksTotal.WithLabelValues(signal).Inc()
}

// RecordProviderRequest counts one outbound call
func RecordProviderRequest(provider string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	providerRequests.WithLabelValues(provider, status).Inc()
}

// ObserveStage records how long a stage took
func ObserveStage(stage string, start time.Time) {
	stageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}
