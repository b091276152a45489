package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	paymentSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mmk_payment_submissions_total",
			Help: "Payment proof submissions by target kind, submission type and outcome",
		},
		[]string{"kind", "type", "outcome"},
	)

	paymentDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mmk_payment_decisions_total",
			Help: "Admin approve and reject decisions by outcome",
		},
		[]string{"kind", "decision", "outcome"},
	)

	sideEffectFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mmk_side_effect_failures_total",
			Help: "Best-effort side effects that failed (image delete, email, alert)",
		},
		[]string{"effect"},
	)

	sweptUploads = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mmk_swept_uploads_total",
			Help: "Orphaned uploads removed by the sweeper",
		},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mmk_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

func TrackSubmission(kind, submissionType, outcome string) {
	paymentSubmissions.WithLabelValues(kind, submissionType, outcome).Inc()
}

func TrackDecision(kind, decision, outcome string) {
	paymentDecisions.WithLabelValues(kind, decision, outcome).Inc()
}

func TrackSideEffectFailure(effect string) {
	sideEffectFailures.WithLabelValues(effect).Inc()
}

func TrackSwept(n int) {
	sweptUploads.Add(float64(n))
}

func TrackHTTP(method, route string, status int, d time.Duration) {
	httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}
