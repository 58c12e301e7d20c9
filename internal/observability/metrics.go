package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	apiRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nodetree_http_requests_total",
		Help: "HTTP requests by route, method and status",
	}, []string{"route", "method", "status"})

	apiLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nodetree_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	apiInflight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "nodetree_http_requests_inflight",
		Help: "HTTP requests currently being served",
	})
)

// Tree metrics
var (
	consistencyRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nodetree_consistency_runs_total",
		Help: "Consistency recomputations by outcome",
	}, []string{"outcome"})

	consistencyDepth = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "nodetree_consistency_levels",
		Help:    "Ancestor levels visited per recomputation",
		Buckets: []float64{0, 1, 2, 4, 8, 16, 32, 64},
	})

	projectPushes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nodetree_project_state_pushes_total",
		Help: "Project rows updated by node state pushes",
	})

	subtreeDeletes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "nodetree_subtree_delete_size",
		Help:    "Nodes removed per cascading delete",
		Buckets: []float64{1, 10, 100, 1000, 10000},
	})

	mirrorErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nodetree_graph_mirror_errors_total",
		Help: "Failed writes to the graph mirror",
	}, []string{"op"})
)

func HTTPStart() { apiInflight.Inc() }

func HTTPDone(route, method string, status int, d time.Duration) {
	apiInflight.Dec()
	if route == "" {
		route = "unmatched"
	}
	apiRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	apiLatency.WithLabelValues(route, method).Observe(d.Seconds())
}

// ConsistencyRun records one recomputation. outcome is one of stable, changed, depth_limit.
func ConsistencyRun(outcome string, levels int) {
	consistencyRuns.WithLabelValues(outcome).Inc()
	consistencyDepth.Observe(float64(levels))
}

func ProjectPushes(n int64) {
	if n > 0 {
		projectPushes.Add(float64(n))
	}
}

func SubtreeDeleted(n int) { subtreeDeletes.Observe(float64(n)) }

func MirrorError(op string) { mirrorErrors.WithLabelValues(op).Inc() }
