package core

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	ActivationRuns       *prometheus.CounterVec
	ActivatedAssignments prometheus.Counter
	ActivationFailures   prometheus.Counter
	ActivationDuration   prometheus.Histogram
	ReviewSubmissions    *prometheus.CounterVec
	RequestDuration      *prometheus.HistogramVec
}

func NewMetrics(namespace, subsystem string) *Metrics {
	namespace = strings.ReplaceAll(namespace, "-", "_")
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ActivationRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "activation_runs_total",
			Help:      "Activation trigger runs by result.",
		}, []string{"result"}),
		ActivatedAssignments: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "activated_assignments_total",
			Help:      "Assignments moved to started with their reviews generated.",
		}),
		ActivationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "activation_failures_total",
			Help:      "Assignments whose activation was rolled back.",
		}),
		ActivationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "activation_duration_seconds",
			Help:      "Duration of a whole activation run.",
			Buckets:   prometheus.DefBuckets,
		}),
		ReviewSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "review_submissions_total",
			Help:      "Review submissions by result.",
		}, []string{"result"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path", "code"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.ActivationRuns,
		m.ActivatedAssignments,
		m.ActivationFailures,
		m.ActivationDuration,
		m.ReviewSubmissions,
		m.RequestDuration,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
