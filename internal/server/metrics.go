package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	batchItems      prometheus.Histogram
	rejectedTotal   *prometheus.CounterVec
	normalizedNodes prometheus.Counter
}

// NewRegistry returns a registry with the process and Go runtime collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		requestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dretree",
			Name:      "http_requests_total",
			Help:      "Total number of API requests.",
		}, []string{"route", "method", "code"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dretree",
			Name:      "http_request_duration_seconds",
			Help:      "Latency distribution for API requests.",
			Buckets: []float64{
				0.001, 0.002, 0.005,
				0.01, 0.02, 0.05,
				0.1, 0.2, 0.5,
				1, 2, 5,
			},
		}, []string{"route", "method"}),
		batchItems: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dretree",
			Name:      "reorder_batch_items",
			Help:      "Number of items per applied reorder batch.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
		}),
		rejectedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dretree",
			Name:      "reorder_rejected_total",
			Help:      "Total number of reorder batches refused, by error code.",
		}, []string{"code"}),
		normalizedNodes: f.NewCounter(prometheus.CounterOpts{
			Namespace: "dretree",
			Name:      "normalized_nodes_total",
			Help:      "Total number of nodes renumbered by normalize.",
		}),
	}
}
