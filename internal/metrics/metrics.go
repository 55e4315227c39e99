package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the collectors the API records into.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	MemberMutations *prometheus.CounterVec
	LoginAttempts   *prometheus.CounterVec
	PhotoUploads    *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "alumni_http_requests_total",
			Help: "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "alumni_http_request_duration_seconds",
			Help:    "HTTP request latency by route and method.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		MemberMutations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "alumni_member_mutations_total",
			Help: "Member create, edit and delete operations by outcome.",
		}, []string{"operation", "outcome"}),
		LoginAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "alumni_login_attempts_total",
			Help: "Admin login attempts by outcome.",
		}, []string{"outcome"}),
		PhotoUploads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "alumni_photo_uploads_total",
			Help: "Photo uploads to object storage by outcome.",
		}, []string{"outcome"}),
	}
}

// NewNop returns collectors registered nowhere, for tests.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
