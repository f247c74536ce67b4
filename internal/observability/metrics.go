package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce            sync.Once
	apiRequestsTotal        *prometheus.CounterVec
	apiLatencySeconds       *prometheus.HistogramVec
	apiErrorsTotal          *prometheus.CounterVec
	submissionsTotal        *prometheus.CounterVec
	transcriptionLatency    prometheus.Histogram
	transcriptionsRejected  *prometheus.CounterVec
	transcriptionsCompleted prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scribe_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "scribe_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scribe_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		submissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scribe_submissions_total",
			Help: "Submission outcomes by status.",
		}, []string{"status"})

		transcriptionLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "scribe_transcription_latency_seconds",
			Help:    "End-to-end latency of the transcribe-and-extract flow.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		})

		transcriptionsRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scribe_transcriptions_rejected_total",
			Help: "Transcription requests rejected, by reason.",
		}, []string{"reason"})

		transcriptionsCompleted = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scribe_transcriptions_completed_total",
			Help: "Transcription requests completed successfully.",
		})

		prometheus.MustRegister(
			apiRequestsTotal,
			apiLatencySeconds,
			apiErrorsTotal,
			submissionsTotal,
			transcriptionLatency,
			transcriptionsRejected,
			transcriptionsCompleted,
		)
	})
}

// APIRequests exposes the counter for API requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for API requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for API error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// Submissions exposes the counter for submission outcomes.
func Submissions() *prometheus.CounterVec {
	RegisterMetrics()
	return submissionsTotal
}

// TranscriptionLatency exposes the transcription latency histogram.
func TranscriptionLatency() prometheus.Histogram {
	RegisterMetrics()
	return transcriptionLatency
}

// TranscriptionsRejected exposes the counter for rejected transcriptions.
func TranscriptionsRejected() *prometheus.CounterVec {
	RegisterMetrics()
	return transcriptionsRejected
}

// TranscriptionsCompleted exposes the counter for completed transcriptions.
func TranscriptionsCompleted() prometheus.Counter {
	RegisterMetrics()
	return transcriptionsCompleted
}
