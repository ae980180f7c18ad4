package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the Prometheus instruments exported by the server.
type Metrics struct {
	Requests        *prometheus.CounterVec
	SessionsCreated prometheus.Counter
	RoundsAppended  prometheus.Counter
	HistorianHits   prometheus.Histogram
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		Requests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "API requests by operation and status.",
		}, []string{"op", "status"}),
		SessionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_created_total",
			Help:      "Council sessions created.",
		}),
		RoundsAppended: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_appended_total",
			Help:      "Rounds appended to sessions.",
		}),
		HistorianHits: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "historian_results",
			Help:      "Related sessions returned per historian query.",
			Buckets:   []float64{0, 1, 2, 3},
		}),
	}
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
