package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whistlesafe_submissions_total",
			Help: "Total report submissions by verdict status",
		},
		[]string{"status"},
	)

	SubmissionFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whistlesafe_submission_failures_total",
			Help: "Total submissions aborted by a pipeline failure",
		},
		[]string{"stage"},
	)

	ScoringDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "whistlesafe_scoring_duration_seconds",
			Help:    "Credibility scoring duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"policy"},
	)

	CredibilityScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "whistlesafe_credibility_score",
			Help:    "Final credibility scores",
			Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		},
	)

	AttachmentsSaved = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "whistlesafe_attachments_saved_total",
			Help: "Total attachments persisted",
		},
	)

	StoredReports = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "whistlesafe_store_reports",
			Help: "Number of reports in the store as of the last read",
		},
	)

	DownloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whistlesafe_downloads_total",
			Help: "Total attachment download requests",
		},
		[]string{"status"},
	)
)

func Init() {
	prometheus.MustRegister(SubmissionsTotal)
	prometheus.MustRegister(SubmissionFailures)
	prometheus.MustRegister(ScoringDuration)
	prometheus.MustRegister(CredibilityScore)
	prometheus.MustRegister(AttachmentsSaved)
	prometheus.MustRegister(StoredReports)
	prometheus.MustRegister(DownloadsTotal)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
