package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Label names.
const (
	LabelMethod = "method"
	LabelRoute  = "route"
	LabelStatus = "status"
	LabelOp     = "op"
	LabelResult = "result"
)

// HTTP metrics.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "armory_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status.",
		},
		[]string{LabelMethod, LabelRoute, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "armory_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{LabelMethod, LabelRoute},
	)
)

// Armor metrics.
var (
	ViewsComputed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "armory_views_computed_total",
			Help: "Number of armor cost views computed.",
		},
	)

	LevelChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "armory_level_changes_total",
			Help: "Armor progress rows created, updated or deleted.",
		},
		[]string{LabelOp},
	)

	UpdateBatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "armory_update_batches_total",
			Help: "Armor level update batches by result.",
		},
		[]string{LabelResult},
	)
)

// Handler serves the registered metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Observe records one finished HTTP request. route should be the matched
// pattern rather than the raw path to keep label cardinality bounded.
func Observe(method, route string, status int, elapsed time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
